package notification

import (
	"context"
	"sync"
	"testing"
	"time"

	"realty-crm/internal/common/logger"
	"realty-crm/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// ==========================
// Mock Implementations
// ==========================

type mockStore struct {
	mu       sync.Mutex
	inserted []*models.NotificationEvent

	InsertFunc   func(ctx context.Context, n *models.NotificationEvent) error
	ContactFunc  func(ctx context.Context, userID string) (*models.Contact, error)
	MarkReadFunc func(ctx context.Context, notificationID, userID string) (bool, error)
}

func (m *mockStore) InsertNotification(ctx context.Context, n *models.NotificationEvent) error {
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, n); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.inserted = append(m.inserted, n)
	m.mu.Unlock()
	return nil
}

func (m *mockStore) GetContact(ctx context.Context, userID string) (*models.Contact, error) {
	if m.ContactFunc != nil {
		return m.ContactFunc(ctx, userID)
	}
	return &models.Contact{UserID: userID, FullName: "Asha Rao", Phone: "9876543210", Email: "asha@example.com"}, nil
}

func (m *mockStore) MarkNotificationRead(ctx context.Context, notificationID, userID string) (bool, error) {
	return m.MarkReadFunc(ctx, notificationID, userID)
}

func (m *mockStore) Inserted() []*models.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.NotificationEvent(nil), m.inserted...)
}

type mockSender struct {
	channel  models.Channel
	SendFunc func(ctx context.Context, to models.Contact, msg Message) error

	mu    sync.Mutex
	calls []Message
}

func (m *mockSender) Channel() models.Channel { return m.channel }

func (m *mockSender) Send(ctx context.Context, to models.Contact, msg Message) error {
	m.mu.Lock()
	m.calls = append(m.calls, msg)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, msg)
	}
	return nil
}

func (m *mockSender) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type MockWhatsAppClient struct {
	SendMessageFunc func(ctx context.Context, to, text string) (string, error)
}

func (m *MockWhatsAppClient) SendMessage(ctx context.Context, to, text string) (string, error) {
	return m.SendMessageFunc(ctx, to, text)
}

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params)
}

// ==========================
// Test Logger
// ==========================

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func newTestDispatcher(t *testing.T, store Store, senders ...Sender) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(store, senders, newTestLogger(t))
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	d.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return d
}
