package usecase

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"github.com/totegamma/fantalega/internal/domain"
)

// MaxSubscriptionBytes bounds a push descriptor. Browser subscriptions are
// well under a kilobyte.
const MaxSubscriptionBytes = 16 << 10

type PushUsecase struct {
	repo PushSubscriptionRepository
	gate *Gate
}

func NewPushUsecase(repo PushSubscriptionRepository, gate *Gate) *PushUsecase {
	return &PushUsecase{repo: repo, gate: gate}
}

// Register stores the caller's push descriptor. Registering the same
// descriptor again overwrites the existing row.
func (uc *PushUsecase) Register(ctx context.Context, id domain.Identity, subscription json.RawMessage) error {
	ctx, span := tracer.Start(ctx, "Push.Usecase.Register")
	defer span.End()

	decision, err := uc.gate.Authorize(ctx, id, domain.ManageOwnPushSubscription())
	if err != nil {
		return &domain.StoreError{Op: "authorize", Err: err}
	}
	if err := decision.Err(); err != nil {
		return err
	}

	if len(subscription) > MaxSubscriptionBytes {
		return &domain.ValidationError{Field: "subscription", Msg: "subscription too large"}
	}

	canonical, err := CanonicalSubscription(subscription)
	if err != nil {
		return err
	}

	err = uc.repo.Upsert(ctx, domain.PushSubscription{
		UserID:       id.UserID,
		Subscription: canonical,
		Key:          SubscriptionKey(canonical),
	})
	if err != nil {
		span.RecordError(errors.Wrap(err, "PushUsecase.Register: repo.Upsert failed"))
		return &domain.StoreError{Op: "upsert push subscription", Err: err}
	}
	return nil
}

// List returns the caller's registered push descriptors.
func (uc *PushUsecase) List(ctx context.Context, id domain.Identity) ([]domain.PushSubscription, error) {
	ctx, span := tracer.Start(ctx, "Push.Usecase.List")
	defer span.End()

	decision, err := uc.gate.Authorize(ctx, id, domain.ManageOwnPushSubscription())
	if err != nil {
		return nil, &domain.StoreError{Op: "authorize", Err: err}
	}
	if err := decision.Err(); err != nil {
		return nil, err
	}

	subs, err := uc.repo.ListByUser(ctx, id.UserID)
	if err != nil {
		span.RecordError(errors.Wrap(err, "PushUsecase.List: repo.ListByUser failed"))
		return nil, &domain.StoreError{Op: "list push subscriptions", Err: err}
	}
	if subs == nil {
		subs = []domain.PushSubscription{}
	}
	return subs, nil
}

// CanonicalSubscription validates a push descriptor and re-encodes it with
// sorted keys and no insignificant whitespace.
func CanonicalSubscription(raw json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &domain.ValidationError{Field: "subscription", Msg: "body is required"}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var descriptor map[string]any
	if err := dec.Decode(&descriptor); err != nil {
		return nil, &domain.ValidationError{Field: "subscription", Msg: "must be a JSON object"}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &domain.ValidationError{Field: "subscription", Msg: "unexpected data after object"}
	}

	endpoint, _ := descriptor["endpoint"].(string)
	if endpoint == "" {
		return nil, &domain.ValidationError{Field: "endpoint", Msg: "must not be empty"}
	}

	canonical, err := json.Marshal(descriptor)
	if err != nil {
		return nil, &domain.ValidationError{Field: "subscription", Msg: err.Error()}
	}
	return canonical, nil
}

// SubscriptionKey is the conflict key of a canonical descriptor.
func SubscriptionKey(canonical json.RawMessage) string {
	sum := xxh3.Hash128(canonical).Bytes()
	return hex.EncodeToString(sum[:])
}
