package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/totegamma/fantalega/internal/domain"
)

const sampleSubscription = `{"endpoint":"https://push.example.com/send/abc","expirationTime":null,"keys":{"p256dh":"BNc...","auth":"tBH..."}}`

func TestPushRegisterUpsert(t *testing.T) {
	repo := newMockPushRepo()
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))
	ctx := context.Background()
	user := domain.UserIdentity("user-a")

	if err := uc.Register(ctx, user, json.RawMessage(sampleSubscription)); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// same descriptor, different key order and whitespace
	again := `{ "keys": {"auth":"tBH...", "p256dh":"BNc..."}, "expirationTime": null, "endpoint": "https://push.example.com/send/abc" }`
	if err := uc.Register(ctx, user, json.RawMessage(again)); err != nil {
		t.Fatalf("second register failed: %v", err)
	}

	subs, _ := repo.ListByUser(ctx, "user-a")
	if len(subs) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(subs))
	}
}

func TestPushRegisterDistinctDescriptors(t *testing.T) {
	repo := newMockPushRepo()
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))
	ctx := context.Background()
	user := domain.UserIdentity("user-a")

	_ = uc.Register(ctx, user, json.RawMessage(`{"endpoint":"https://push.example.com/1"}`))
	_ = uc.Register(ctx, user, json.RawMessage(`{"endpoint":"https://push.example.com/2"}`))

	subs, _ := repo.ListByUser(ctx, "user-a")
	if len(subs) != 2 {
		t.Fatalf("expected two records, got %d", len(subs))
	}
}

func TestPushRegisterUnauthenticated(t *testing.T) {
	repo := newMockPushRepo()
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))

	for _, id := range []domain.Identity{domain.AnonymousIdentity(), domain.AdminIdentity()} {
		err := uc.Register(context.Background(), id, json.RawMessage(sampleSubscription))
		if !domain.IsUnauthenticated(err) {
			t.Fatalf("expected unauthenticated for %s, got %v", id.Kind, err)
		}
	}
	if repo.calls != 0 {
		t.Fatalf("expected no store write, got %d", repo.calls)
	}
}

func TestPushRegisterValidation(t *testing.T) {
	repo := newMockPushRepo()
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))

	for _, body := range []string{``, `null`, `[]`, `{}`, `{"endpoint":""}`, `{"endpoint":1}`, `{"endpoint":"x"} {}`} {
		err := uc.Register(context.Background(), domain.UserIdentity("user-a"), json.RawMessage(body))
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error for %q, got %v", body, err)
		}
	}
	if repo.calls != 0 {
		t.Fatalf("expected no store write, got %d", repo.calls)
	}
}

func TestPushRegisterStoreFailure(t *testing.T) {
	repo := newMockPushRepo()
	repo.fail = errStoreDown
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))

	err := uc.Register(context.Background(), domain.UserIdentity("user-a"), json.RawMessage(sampleSubscription))
	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) || storeErr.Error() != "connection refused" {
		t.Fatalf("expected store error with underlying message, got %v", err)
	}
}

func TestPushRegisterOversized(t *testing.T) {
	repo := newMockPushRepo()
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))
	huge := `{"endpoint":"https://push.example.com/1","pad":"` + strings.Repeat("x", MaxSubscriptionBytes) + `"}`

	// authorization is decided before the body is inspected
	err := uc.Register(context.Background(), domain.AnonymousIdentity(), json.RawMessage(huge))
	if !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated for anonymous caller, got %v", err)
	}

	err = uc.Register(context.Background(), domain.UserIdentity("user-a"), json.RawMessage(huge))
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no store write, got %d", repo.calls)
	}
}

func TestPushList(t *testing.T) {
	repo := newMockPushRepo()
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))
	ctx := context.Background()

	subs, err := uc.List(ctx, domain.UserIdentity("user-a"))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if subs == nil || len(subs) != 0 {
		t.Fatalf("expected an empty non-nil list, got %#v", subs)
	}

	_ = uc.Register(ctx, domain.UserIdentity("user-a"), json.RawMessage(`{"endpoint":"https://push.example.com/1"}`))
	_ = uc.Register(ctx, domain.UserIdentity("user-b"), json.RawMessage(`{"endpoint":"https://push.example.com/2"}`))

	subs, err = uc.List(ctx, domain.UserIdentity("user-a"))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(subs) != 1 || subs[0].UserID != "user-a" {
		t.Fatalf("expected only user-a's record, got %#v", subs)
	}
}

func TestPushListDenied(t *testing.T) {
	repo := newMockPushRepo()
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))

	for _, id := range []domain.Identity{domain.AnonymousIdentity(), domain.AdminIdentity()} {
		_, err := uc.List(context.Background(), id)
		if !domain.IsUnauthenticated(err) {
			t.Fatalf("expected unauthenticated for %s, got %v", id.Kind, err)
		}
	}
}

func TestPushListStoreFailure(t *testing.T) {
	repo := newMockPushRepo()
	repo.fail = errStoreDown
	uc := NewPushUsecase(repo, NewGate(newMockTeamRepo()))

	_, err := uc.List(context.Background(), domain.UserIdentity("user-a"))
	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestSubscriptionKeyStable(t *testing.T) {
	a, err := CanonicalSubscription(json.RawMessage(`{"endpoint":"e","n":1700000000123}`))
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	b, err := CanonicalSubscription(json.RawMessage(`{"n":1700000000123, "endpoint":"e"}`))
	if err != nil {
		t.Fatalf("canonicalize failed: %v", err)
	}
	if string(a) != `{"endpoint":"e","n":1700000000123}` {
		t.Fatalf("unexpected canonical form %s", a)
	}
	if SubscriptionKey(a) != SubscriptionKey(b) {
		t.Fatalf("expected equal keys")
	}
	if len(SubscriptionKey(a)) != 32 {
		t.Fatalf("expected 128-bit hex key, got %q", SubscriptionKey(a))
	}
}
