// internal/activities/service.go
package activities

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "activity-signup/internal/common/errors"
	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/metrics"
	"activity-signup/internal/common/observability"
	"activity-signup/internal/notifications"
)

// Service implements list, signup and unregister against a Store.
type Service struct {
	store    Store
	notifier notifications.Notifier
	obs      *observability.Observability
	logger   logger.Logger
}

func NewService(store Store, notifier notifications.Notifier, obs *observability.Observability, log logger.Logger) *Service {
	if notifier == nil {
		notifier = notifications.Nop{}
	}
	if obs == nil {
		obs = observability.NewNoop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "activities"}),
	}
}

// List returns every activity with its current participants.
func (s *Service) List(ctx context.Context) (Registry, error) {
	ctx, span := s.obs.StartSpan(ctx, "activities.list")
	defer span.End()

	reg, err := s.store.List(ctx)
	if err != nil {
		failSpan(span, err)
		return nil, err
	}
	for name, a := range reg {
		metrics.ActivityParticipants.WithLabelValues(name).Set(float64(len(a.Participants)))
	}
	return reg, nil
}

// Signup appends email to the activity roster.
func (s *Service) Signup(ctx context.Context, activity, email string) (string, error) {
	ctx, span := s.obs.StartSpan(ctx, "activities.signup", attribute.String("activity", activity))
	defer span.End()

	start := time.Now()
	count, err := s.store.AddParticipant(ctx, activity, email)
	s.record(ctx, OperationSignup, start, err)
	if err != nil {
		failSpan(span, err)
		return "", err
	}

	metrics.ActivityParticipants.WithLabelValues(activity).Set(float64(count))
	s.logger.Info("participant signed up", map[string]interface{}{
		"activity":     activity,
		"email":        email,
		"participants": count,
	})
	s.notify(ctx, notifications.NewEvent(notifications.EventSignedUp, activity, email))

	return fmt.Sprintf("Signed up %s for %s", email, activity), nil
}

// Unregister removes email from the activity roster.
func (s *Service) Unregister(ctx context.Context, activity, email string) (string, error) {
	ctx, span := s.obs.StartSpan(ctx, "activities.unregister", attribute.String("activity", activity))
	defer span.End()

	start := time.Now()
	count, err := s.store.RemoveParticipant(ctx, activity, email)
	s.record(ctx, OperationUnregister, start, err)
	if err != nil {
		failSpan(span, err)
		return "", err
	}

	metrics.ActivityParticipants.WithLabelValues(activity).Set(float64(count))
	s.logger.Info("participant unregistered", map[string]interface{}{
		"activity":     activity,
		"email":        email,
		"participants": count,
	})
	s.notify(ctx, notifications.NewEvent(notifications.EventUnregistered, activity, email))

	return fmt.Sprintf("Unregistered %s from %s", email, activity), nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) record(ctx context.Context, operation string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = string(apperrors.CodeOf(err))
	}
	metrics.RosterOperations.WithLabelValues(operation, result).Inc()
	s.obs.RecordOperation(ctx, operation, result, time.Since(start))
}

// notify delivers the event; the roster change stands whatever happens here.
func (s *Service) notify(ctx context.Context, event notifications.Event) {
	if err := s.notifier.RosterChanged(ctx, event); err != nil {
		s.logger.Warn("roster notification incomplete", map[string]interface{}{
			"eventId":  event.ID,
			"activity": event.Activity,
			"error":    err.Error(),
		})
	}
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
}
