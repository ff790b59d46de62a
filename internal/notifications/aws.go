package notifications

import (
	"context"

	"activity-signup/internal/common/aws"
	"activity-signup/internal/common/config"
	"activity-signup/internal/common/logger"
)

const (
	ChannelEmail  = "email"
	ChannelEvents = "events"
)

// NewFromConfig builds a Dispatcher with the SES and SNS channels enabled in cfg.
// AWS credentials are only resolved when at least one channel is on.
func NewFromConfig(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Dispatcher, error) {
	d := NewDispatcher(config.GetDuration(cfg.Timeout), log)
	if !cfg.Email.Enabled && !cfg.Events.Enabled {
		return d, nil
	}

	session, err := aws.NewSession(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	if cfg.Email.Enabled {
		d.Register(ChannelEmail, NewEmailNotifier(session.SES(), cfg.Email.FromEmail))
	}
	if cfg.Events.Enabled {
		d.Register(ChannelEvents, NewTopicNotifier(session.SNS(), cfg.Events.TopicARN))
	}
	return d, nil
}
