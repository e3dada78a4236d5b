package notification

import (
	"context"
	"fmt"
	"time"

	apperrors "realty-crm/internal/common/errors"
	"realty-crm/internal/common/logger"
	"realty-crm/internal/common/metrics"
	"realty-crm/internal/common/observability"
	"realty-crm/internal/common/validation"
	"realty-crm/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// Store is the persistence the dispatcher needs.
type Store interface {
	InsertNotification(ctx context.Context, n *models.NotificationEvent) error
	GetContact(ctx context.Context, userID string) (*models.Contact, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID string) (bool, error)
}

// Dispatcher records a notification in-app and fans it out to external
// channels. External failures never undo the in-app record.
type Dispatcher struct {
	store   Store
	schemas *validation.SchemaSet
	senders map[models.Channel]Sender
	logger  logger.Logger
	now     func() time.Time
}

func NewDispatcher(store Store, senders []Sender, log logger.Logger) (*Dispatcher, error) {
	schemas, err := validation.NewSchemaSet(schemaDefinitions())
	if err != nil {
		return nil, fmt.Errorf("notification schemas: %w", err)
	}

	bySender := make(map[models.Channel]Sender, len(senders))
	for _, s := range senders {
		bySender[s.Channel()] = s
	}

	return &Dispatcher{
		store:   store,
		schemas: schemas,
		senders: bySender,
		logger:  log.WithFields(map[string]interface{}{"component": "notification_dispatcher"}),
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Notify delivers one event to userID. It returns false when nothing was
// recorded: unknown type, invalid payload or a failed in-app write. Once the
// in-app row exists the result is true whatever the external channels do. It
// never panics.
func (d *Dispatcher) Notify(ctx context.Context, userID, eventType string, payload Payload) (ok bool) {
	t := NormalizeEventType(eventType)
	log := d.logger.WithFields(map[string]interface{}{
		"userId":    userID,
		"eventType": string(t),
	})

	var recorded bool
	defer func() {
		if r := recover(); r != nil {
			log.Error("notification dispatch panicked", map[string]interface{}{
				"panic":    fmt.Sprint(r),
				"recorded": recorded,
			})
			ok = recorded
		}
	}()

	ctx, span := observability.StartSpan(ctx, "notification.notify",
		attribute.String("event_type", string(t)),
		attribute.String("user_id", userID),
	)
	defer span.End()

	if userID == "" {
		log.Warn("notification rejected: missing user id", nil)
		return false
	}
	if !t.Known() {
		log.Warn("notification rejected: unknown event type", map[string]interface{}{"rawEventType": eventType})
		return false
	}
	if err := d.schemas.Validate(string(t), payload.Data); err != nil {
		log.Warn("notification rejected: invalid payload", map[string]interface{}{"error": err.Error()})
		return false
	}

	msg, err := Format(t, payload.Data)
	if err != nil {
		log.Error("notification format failed", map[string]interface{}{"error": err.Error()})
		return false
	}

	data := payload.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	event := &models.NotificationEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      string(t),
		Title:     msg.Title,
		Message:   msg.Body,
		Data:      data,
		Channel:   models.ChannelApp,
		CreatedAt: d.now(),
	}
	if err := d.store.InsertNotification(ctx, event); err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(models.ChannelApp), "failed").Inc()
		log.Error("in-app notification write failed", map[string]interface{}{"error": err.Error()})
		return false
	}
	recorded = true
	metrics.NotificationsTotal.WithLabelValues(string(models.ChannelApp), "sent").Inc()

	d.deliverExternal(ctx, log, userID, t, payload.Channels, msg)

	log.Info("notification dispatched", map[string]interface{}{"notificationId": event.ID})
	return true
}

func (d *Dispatcher) deliverExternal(ctx context.Context, log logger.Logger, userID string, t EventType, override []models.Channel, msg Message) {
	channels := ResolveChannels(t, override)
	if len(channels) == 0 {
		return
	}

	var contact *models.Contact
	for _, ch := range channels {
		sender, ok := d.senders[ch]
		if !ok {
			log.Debug("channel not configured, skipping", map[string]interface{}{"channel": string(ch)})
			metrics.NotificationsTotal.WithLabelValues(string(ch), "skipped").Inc()
			continue
		}

		if contact == nil {
			c, err := d.store.GetContact(ctx, userID)
			if err != nil {
				log.Warn("recipient contact lookup failed, external delivery skipped", map[string]interface{}{"error": err.Error()})
				return
			}
			contact = c
		}

		if err := send(ctx, sender, *contact, msg); err != nil {
			deliveryErr := apperrors.NewExternalDeliveryError(string(ch), err)
			metrics.NotificationsTotal.WithLabelValues(string(ch), "failed").Inc()
			log.Warn("external delivery failed", map[string]interface{}{
				"channel":   string(ch),
				"errorCode": string(deliveryErr.Code),
				"error":     err.Error(),
			})
			continue
		}
		metrics.NotificationsTotal.WithLabelValues(string(ch), "sent").Inc()
	}
}

// send isolates one channel so a panicking sender fails only its own delivery.
func send(ctx context.Context, sender Sender, to models.Contact, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panicked: %v", r)
		}
	}()
	return sender.Send(ctx, to, msg)
}

// MarkRead marks a user's own notification as read.
func (d *Dispatcher) MarkRead(ctx context.Context, notificationID, userID string) error {
	updated, err := d.store.MarkNotificationRead(ctx, notificationID, userID)
	if err != nil {
		return apperrors.NewPersistenceError("mark_notification_read", err)
	}
	if !updated {
		return apperrors.NewNotFoundError("notification", notificationID)
	}
	return nil
}
