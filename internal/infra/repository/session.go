package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/totegamma/fantalega/internal/domain"
	"github.com/totegamma/fantalega/internal/infra/database/models"
)

// SessionRepository resolves end-user sessions stored in Postgres.
type SessionRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

func (r *SessionRepository) Lookup(ctx context.Context, token string) (domain.UserSession, bool, error) {
	if token == "" {
		return domain.UserSession{}, false, nil
	}

	var session models.UserSession
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", hashToken(token), r.now()).
		Take(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserSession{}, false, nil
		}
		return domain.UserSession{}, false, err
	}
	return domain.UserSession{UserID: session.UserID, ExpiresAt: session.ExpiresAt}, true, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("token_hash = ?", hashToken(token)).
		Delete(&models.UserSession{}).Error
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
