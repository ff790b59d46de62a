package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-signup/internal/common/config"
	"activity-signup/internal/common/logger"
)

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

type notifierFunc func(ctx context.Context, event Event) error

func (f notifierFunc) RosterChanged(ctx context.Context, event Event) error { return f(ctx, event) }

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventSignedUp, "Chess Club", "a@b.c")
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventSignedUp, e.Type)
	assert.Equal(t, "Chess Club", e.Activity)
	assert.WithinDuration(t, time.Now().UTC(), e.OccurredAt, time.Minute)
}

func TestEmailNotifier(t *testing.T) {
	tests := []struct {
		name        string
		eventType   string
		wantSubject string
	}{
		{name: "signup", eventType: EventSignedUp, wantSubject: "You are signed up for Chess Club"},
		{name: "unregister", eventType: EventUnregistered, wantSubject: "You have left Chess Club"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured *ses.SendEmailInput
			client := &MockSESService{
				SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
					captured = params
					return &ses.SendEmailOutput{}, nil
				},
			}

			n := NewEmailNotifier(client, "activities@mergington.edu")
			err := n.RosterChanged(context.Background(), NewEvent(tt.eventType, "Chess Club", "new@mergington.edu"))
			require.NoError(t, err)

			require.NotNil(t, captured)
			assert.Equal(t, []string{"new@mergington.edu"}, captured.Destination.ToAddresses)
			assert.Equal(t, "activities@mergington.edu", aws.ToString(captured.Source))
			assert.Equal(t, tt.wantSubject, aws.ToString(captured.Message.Subject.Data))
		})
	}
}

func TestEmailNotifier_Error(t *testing.T) {
	client := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	err := NewEmailNotifier(client, "x@y.z").RosterChanged(context.Background(), NewEvent(EventSignedUp, "A", "b@c.d"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestTopicNotifier(t *testing.T) {
	var captured *sns.PublishInput
	client := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
		},
	}

	event := NewEvent(EventUnregistered, "Gym Class", "john@mergington.edu")
	err := NewTopicNotifier(client, "arn:aws:sns:us-east-1:1:roster").RosterChanged(context.Background(), event)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "arn:aws:sns:us-east-1:1:roster", aws.ToString(captured.TopicArn))
	assert.Equal(t, EventUnregistered, aws.ToString(captured.MessageAttributes["eventType"].StringValue))

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(captured.Message)), &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "Gym Class", decoded.Activity)
}

func TestDispatcher_FanOutAndErrors(t *testing.T) {
	d := NewDispatcher(time.Second, logger.NewTestLogger(t))

	var delivered []string
	d.Register("ok", notifierFunc(func(ctx context.Context, event Event) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		delivered = append(delivered, event.Email)
		return nil
	}))
	d.Register("broken", notifierFunc(func(ctx context.Context, event Event) error {
		return errors.New("unreachable")
	}))

	err := d.RosterChanged(context.Background(), NewEvent(EventSignedUp, "Art Club", "x@y.z"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: unreachable")
	assert.Equal(t, []string{"x@y.z"}, delivered)
	assert.Equal(t, 2, d.Len())
}

func TestDispatcher_Empty(t *testing.T) {
	d := NewDispatcher(0, logger.NewNoOpLogger())
	assert.NoError(t, d.RosterChanged(context.Background(), NewEvent(EventSignedUp, "A", "b")))
	assert.NoError(t, Nop{}.RosterChanged(context.Background(), Event{}))
}

func TestNewFromConfig_Disabled(t *testing.T) {
	d, err := NewFromConfig(context.Background(), config.NotificationConfig{}, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestNewFromConfig_Enabled(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg := config.NotificationConfig{Timeout: 1000}
	cfg.AWS.Region = "us-east-1"
	cfg.Email.Enabled = true
	cfg.Email.FromEmail = "activities@mergington.edu"
	cfg.Events.Enabled = true
	cfg.Events.TopicARN = "arn:aws:sns:us-east-1:000000000000:roster"

	d, err := NewFromConfig(context.Background(), cfg, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}
