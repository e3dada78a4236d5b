package notification

import (
	"context"
	"errors"
	"testing"

	"realty-crm/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessage = Message{Title: "Interest Confirmed", Body: "We will call you."}

func TestWhatsAppSender(t *testing.T) {
	var gotTo, gotText string
	client := &MockWhatsAppClient{SendMessageFunc: func(ctx context.Context, to, text string) (string, error) {
		gotTo, gotText = to, text
		return "wamid.1", nil
	}}
	s := NewWhatsAppSender(client, "91")

	require.NoError(t, s.Send(context.Background(), models.Contact{Phone: "098765 43210"}, testMessage))
	assert.Equal(t, "919876543210", gotTo)
	assert.Equal(t, "*Interest Confirmed*\n\nWe will call you.", gotText)

	assert.ErrorIs(t, s.Send(context.Background(), models.Contact{}, testMessage), ErrNoContact)
	assert.ErrorIs(t, s.Send(context.Background(), models.Contact{Phone: "12345"}, testMessage), ErrInvalidPhone)
}

func TestSMSSender(t *testing.T) {
	var got *sns.PublishInput
	client := &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
		got = params
		return &sns.PublishOutput{}, nil
	}}
	s := NewSMSSender(client, "91", "REALTY")

	require.NoError(t, s.Send(context.Background(), models.Contact{Phone: "9876543210"}, testMessage))
	require.NotNil(t, got)
	assert.Equal(t, "+919876543210", *got.PhoneNumber)
	assert.Equal(t, "Interest Confirmed: We will call you.", *got.Message)
	assert.Equal(t, "REALTY", *got.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue)
}

func TestSMSSender_PropagatesError(t *testing.T) {
	client := &MockSNSService{PublishFunc: func(ctx context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
		return nil, errors.New("throttled")
	}}
	s := NewSMSSender(client, "91", "")

	err := s.Send(context.Background(), models.Contact{Phone: "9876543210"}, testMessage)
	assert.EqualError(t, err, "throttled")
}

func TestEmailSender(t *testing.T) {
	var got *ses.SendEmailInput
	client := &MockSESService{SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
		got = params
		return &ses.SendEmailOutput{}, nil
	}}
	s := NewEmailSender(client, "noreply@realty.example")

	require.NoError(t, s.Send(context.Background(), models.Contact{Email: "asha@example.com"}, testMessage))
	require.NotNil(t, got)
	assert.Equal(t, []string{"asha@example.com"}, got.Destination.ToAddresses)
	assert.Equal(t, "Interest Confirmed", *got.Message.Subject.Data)
	assert.Equal(t, "noreply@realty.example", *got.Source)

	assert.ErrorIs(t, s.Send(context.Background(), models.Contact{}, testMessage), ErrNoContact)
}
