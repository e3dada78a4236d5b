package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// SearchSink stamps one document per view in an index that search-backed
// list pages poll to decide when to re-query.
type SearchSink struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchSink(client *elasticsearch.Client, index string) *SearchSink {
	if index == "" {
		index = "crm-views"
	}
	return &SearchSink{client: client, index: index}
}

func (s *SearchSink) Name() string { return "elasticsearch" }

func (s *SearchSink) Send(ctx context.Context, sig Signal) error {
	for _, view := range sig.Views {
		body, err := json.Marshal(map[string]interface{}{
			"view":      view,
			"source":    sig.Source,
			"updatedAt": sig.At,
		})
		if err != nil {
			return err
		}

		req := esapi.IndexRequest{
			Index:      s.index,
			DocumentID: view,
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, s.client)
		if err != nil {
			return fmt.Errorf("index %s: %w", view, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index %s: %s", view, res.Status())
		}
	}
	return nil
}
