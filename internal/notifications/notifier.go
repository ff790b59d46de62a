// internal/notifications/notifier.go
package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/metrics"
)

const (
	EventSignedUp     = "signed_up"
	EventUnregistered = "unregistered"
)

// Event describes one roster change.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps a roster change with an id and time.
func NewEvent(eventType, activity, email string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Activity:   activity,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
}

// Notifier is told about every successful roster change.
type Notifier interface {
	RosterChanged(ctx context.Context, event Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) RosterChanged(context.Context, Event) error { return nil }

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// EmailNotifier sends the participant a confirmation email through SES.
type EmailNotifier struct {
	client    SESService
	fromEmail string
}

func NewEmailNotifier(client SESService, fromEmail string) *EmailNotifier {
	return &EmailNotifier{client: client, fromEmail: fromEmail}
}

func (n *EmailNotifier) RosterChanged(ctx context.Context, event Event) error {
	subject, body := renderEmail(event)
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{event.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

func renderEmail(event Event) (string, string) {
	if event.Type == EventUnregistered {
		return fmt.Sprintf("You have left %s", event.Activity),
			fmt.Sprintf("%s has been removed from the %s roster.", event.Email, event.Activity)
	}
	return fmt.Sprintf("You are signed up for %s", event.Activity),
		fmt.Sprintf("%s has been added to the %s roster.", event.Email, event.Activity)
}

// TopicNotifier publishes each event as JSON to an SNS topic.
type TopicNotifier struct {
	client   SNSService
	topicARN string
}

func NewTopicNotifier(client SNSService, topicARN string) *TopicNotifier {
	return &TopicNotifier{client: client, topicARN: topicARN}
}

func (n *TopicNotifier) RosterChanged(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {DataType: aws.String("String"), StringValue: aws.String(event.Type)},
			"activity":  {DataType: aws.String("String"), StringValue: aws.String(event.Activity)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Dispatcher fans an event out to named channels. Delivery failures are
// logged and counted; they never fail the roster change.
type Dispatcher struct {
	channels map[string]Notifier
	timeout  time.Duration
	logger   logger.Logger
}

func NewDispatcher(timeout time.Duration, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		channels: make(map[string]Notifier),
		timeout:  timeout,
		logger:   log.WithFields(map[string]interface{}{"component": "notifications"}),
	}
}

// Register adds a channel. Not safe for use once dispatching has started.
func (d *Dispatcher) Register(name string, n Notifier) {
	d.channels[name] = n
}

// Len returns the number of registered channels.
func (d *Dispatcher) Len() int {
	return len(d.channels)
}

func (d *Dispatcher) RosterChanged(ctx context.Context, event Event) error {
	if len(d.channels) == 0 {
		return nil
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	var errs []error
	for name, n := range d.channels {
		if err := n.RosterChanged(ctx, event); err != nil {
			metrics.NotificationsFailed.WithLabelValues(name).Inc()
			d.logger.Warn("notification failed", map[string]interface{}{
				"channel":  name,
				"eventId":  event.ID,
				"activity": event.Activity,
				"error":    err.Error(),
			})
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
