package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/fantalega/internal/domain"
)

// TeamLogoViews are the views rendered from team logo data.
var TeamLogoViews = []string{domain.ViewHome, domain.ViewTeamResults}

type TeamUsecase struct {
	repo        TeamRepository
	gate        *Gate
	invalidator Invalidator
}

func NewTeamUsecase(repo TeamRepository, gate *Gate, invalidator Invalidator) *TeamUsecase {
	return &TeamUsecase{repo: repo, gate: gate, invalidator: invalidator}
}

// UpdateLogo writes both logo fields of one team and invalidates the views
// showing them. Validation runs before authorization, authorization before
// the write, and the write before invalidation.
func (uc *TeamUsecase) UpdateLogo(ctx context.Context, id domain.Identity, update domain.TeamLogoUpdate) error {
	ctx, span := tracer.Start(ctx, "Team.Usecase.UpdateLogo")
	defer span.End()
	span.SetAttributes(attribute.String("teamId", update.TeamID))

	update, err := normalizeLogoUpdate(update)
	if err != nil {
		return err
	}

	decision, err := uc.gate.Authorize(ctx, id, domain.ManageTeam(update.TeamID))
	if err != nil {
		span.RecordError(err)
		return &domain.StoreError{Op: "authorize", Err: err}
	}
	if err := decision.Err(); err != nil {
		return err
	}

	err = uc.repo.UpdateLogo(ctx, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		span.RecordError(errors.Wrap(err, "TeamUsecase.UpdateLogo: repo.UpdateLogo failed"))
		slog.ErrorContext(
			ctx, "failed to update team logo",
			slog.String("teamId", update.TeamID),
			slog.String("error", err.Error()),
			slog.String("module", "team"),
		)
		return &domain.StoreError{Op: "update team logo", Err: err}
	}

	uc.invalidator.Invalidate(ctx, TeamLogoViews...)
	return nil
}

func (uc *TeamUsecase) Get(ctx context.Context, teamID string) (domain.Team, error) {
	return uc.repo.Get(ctx, teamID)
}

func (uc *TeamUsecase) List(ctx context.Context) ([]domain.Team, error) {
	return uc.repo.List(ctx)
}

// Mine returns the team owned by the calling user.
func (uc *TeamUsecase) Mine(ctx context.Context, id domain.Identity) (domain.Team, error) {
	if !id.IsUser() {
		return domain.Team{}, &domain.AuthorizationError{Reason: domain.DenyUnauthenticated}
	}
	return uc.repo.FindByOwner(ctx, id.UserID)
}

func normalizeLogoUpdate(update domain.TeamLogoUpdate) (domain.TeamLogoUpdate, error) {
	if update.TeamID == "" {
		return update, &domain.ValidationError{Field: "teamId", Msg: "must not be empty"}
	}

	trimmed := bytes.TrimSpace(update.LogoConfig)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		update.LogoConfig = nil
		return update, nil
	}
	if !json.Valid(trimmed) {
		return update, &domain.ValidationError{Field: "logoConfig", Msg: "must be valid JSON or null"}
	}
	update.LogoConfig = json.RawMessage(trimmed)
	return update, nil
}
