package usecase

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/totegamma/fantalega/internal/domain"
)

type AdminUsecase struct {
	creds CredentialVerifier
	codec SessionCodec
}

func NewAdminUsecase(creds CredentialVerifier, codec SessionCodec) *AdminUsecase {
	return &AdminUsecase{creds: creds, codec: codec}
}

// Login checks the credentials and returns the value for a fresh admin
// session cookie. A mismatch returns domain.ErrInvalidCredentials and
// touches no state.
func (uc *AdminUsecase) Login(ctx context.Context, username, password string) (string, error) {
	ctx, span := tracer.Start(ctx, "Admin.Usecase.Login")
	defer span.End()

	err := uc.creds.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			slog.DebugContext(ctx, "admin login rejected", slog.String("module", "admin"))
			return "", domain.ErrInvalidCredentials
		}
		span.RecordError(errors.Wrap(err, "AdminUsecase.Login: creds.Verify failed"))
		return "", err
	}

	token, err := uc.codec.Issue(ctx)
	if err != nil {
		span.RecordError(errors.Wrap(err, "AdminUsecase.Login: codec.Issue failed"))
		return "", err
	}

	slog.InfoContext(ctx, "admin session established", slog.String("module", "admin"))
	return token, nil
}
