package notification

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Message is a rendered notification.
type Message struct {
	Title string
	Body  string
}

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Format renders the event's title and message. Unknown placeholders render
// empty.
func Format(t EventType, data map[string]interface{}) (Message, error) {
	def, ok := events[t]
	if !ok {
		return Message{}, fmt.Errorf("unknown event type %q", t)
	}
	return Message{
		Title: renderTemplate(def.title, data),
		Body:  renderTemplate(def.message, data),
	}, nil
}

func renderTemplate(tmpl string, data map[string]interface{}) string {
	out := placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := placeholder.FindStringSubmatch(match)[1]
		return formatValue(data[key])
	})
	return strings.Join(strings.Fields(out), " ")
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format("02 Jan 2006 03:04 PM")
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
