package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/fantalega/internal/domain"
)

const defaultInvalidationTimeout = 2 * time.Second

// ViewStore holds cached renders of logical views.
type ViewStore interface {
	Delete(ctx context.Context, path string) error
}

// EventPublisher broadcasts view events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event domain.ViewEvent) error
}

// InvalidationService drops cached renders and announces stale views. It
// implements usecase.Invalidator: failures are logged, never returned.
type InvalidationService struct {
	views   ViewStore
	signal  EventPublisher
	timeout time.Duration
	now     func() time.Time
}

func NewInvalidationService(views ViewStore, signal EventPublisher) *InvalidationService {
	return &InvalidationService{
		views:   views,
		signal:  signal,
		timeout: defaultInvalidationTimeout,
		now:     time.Now,
	}
}

func (s *InvalidationService) Invalidate(ctx context.Context, paths ...string) {
	// the mutation has committed; a client hanging up must not skip this
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "Invalidation.Service.Invalidate")
	defer span.End()
	span.SetAttributes(attribute.StringSlice("paths", paths))

	for _, path := range paths {
		if s.views != nil {
			if err := s.views.Delete(ctx, path); err != nil {
				span.RecordError(err)
				slog.WarnContext(
					ctx, "failed to drop cached view",
					slog.String("path", path),
					slog.String("error", err.Error()),
					slog.String("module", "invalidation"),
				)
			}
		}

		if s.signal != nil {
			event := domain.ViewEvent{
				Type: domain.ViewEventInvalidate,
				Path: path,
				Time: s.now().UTC(),
			}
			if err := s.signal.Publish(ctx, domain.ViewChannel, event); err != nil {
				span.RecordError(err)
				slog.WarnContext(
					ctx, "failed to publish view invalidation",
					slog.String("path", path),
					slog.String("error", err.Error()),
					slog.String("module", "invalidation"),
				)
			}
		}
	}
}
