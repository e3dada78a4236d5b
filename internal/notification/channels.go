package notification

import (
	"context"
	"errors"
	"fmt"

	"realty-crm/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// ErrNoContact means the recipient has no address for the channel.
var ErrNoContact = errors.New("recipient has no contact for channel")

// Sender delivers a rendered message over one external channel.
type Sender interface {
	Channel() models.Channel
	Send(ctx context.Context, to models.Contact, msg Message) error
}

// WhatsAppClient is the subset of the WhatsApp API client the sender uses.
type WhatsAppClient interface {
	SendMessage(ctx context.Context, to, text string) (string, error)
}

type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// ==========================
// WhatsApp
// ==========================

type WhatsAppSender struct {
	client      WhatsAppClient
	countryCode string
}

func NewWhatsAppSender(client WhatsAppClient, countryCode string) *WhatsAppSender {
	return &WhatsAppSender{client: client, countryCode: countryCode}
}

func (s *WhatsAppSender) Channel() models.Channel { return models.ChannelWhatsApp }

func (s *WhatsAppSender) Send(ctx context.Context, to models.Contact, msg Message) error {
	if to.Phone == "" {
		return ErrNoContact
	}
	phone, err := NormalizePhone(to.Phone, s.countryCode)
	if err != nil {
		return fmt.Errorf("%w: %q", err, to.Phone)
	}

	text := fmt.Sprintf("*%s*\n\n%s", msg.Title, msg.Body)
	_, err = s.client.SendMessage(ctx, phone, text)
	return err
}

// ==========================
// SMS (SNS)
// ==========================

type SMSSender struct {
	client      SNSService
	countryCode string
	senderID    string
}

func NewSMSSender(client SNSService, countryCode, senderID string) *SMSSender {
	return &SMSSender{client: client, countryCode: countryCode, senderID: senderID}
}

func (s *SMSSender) Channel() models.Channel { return models.ChannelSMS }

func (s *SMSSender) Send(ctx context.Context, to models.Contact, msg Message) error {
	if to.Phone == "" {
		return ErrNoContact
	}
	phone, err := NormalizePhone(to.Phone, s.countryCode)
	if err != nil {
		return fmt.Errorf("%w: %q", err, to.Phone)
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String("+" + phone),
		Message:     aws.String(msg.Title + ": " + msg.Body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		},
	}
	if s.senderID != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	_, err = s.client.Publish(ctx, input)
	return err
}

// ==========================
// Email (SES)
// ==========================

type EmailSender struct {
	client    SESService
	fromEmail string
}

func NewEmailSender(client SESService, fromEmail string) *EmailSender {
	return &EmailSender{client: client, fromEmail: fromEmail}
}

func (s *EmailSender) Channel() models.Channel { return models.ChannelEmail }

func (s *EmailSender) Send(ctx context.Context, to models.Contact, msg Message) error {
	if to.Email == "" {
		return ErrNoContact
	}

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{to.Email}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Title)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Body)},
			},
		},
		Source: aws.String(s.fromEmail),
	})
	return err
}
