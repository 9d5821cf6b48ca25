package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/totegamma/fantalega/internal/domain"
	"github.com/totegamma/fantalega/internal/infra/database/models"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Get(ctx context.Context, id string) (domain.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Team{}, domain.NotFoundError{Resource: "team"}
		}
		return domain.Team{}, err
	}
	return teamToDomain(team), nil
}

func (r *TeamRepository) List(ctx context.Context) ([]domain.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).Order("name asc").Find(&teams).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.Team, 0, len(teams))
	for _, t := range teams {
		result = append(result, teamToDomain(t))
	}
	return result, nil
}

func (r *TeamRepository) FindByOwner(ctx context.Context, userID string) (domain.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("cdate asc").
		Take(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Team{}, domain.NotFoundError{Resource: "team"}
		}
		return domain.Team{}, err
	}
	return teamToDomain(team), nil
}

func (r *TeamRepository) OwnsTeam(ctx context.Context, userID, teamID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Team{}).
		Where("id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLogo writes logo_url and logo_config of one team in a single
// statement. Postgres counts matched rows, so repeating an identical update
// still affects one row.
func (r *TeamRepository) UpdateLogo(ctx context.Context, update domain.TeamLogoUpdate) error {
	var logoURL any
	if update.LogoURL != nil {
		logoURL = *update.LogoURL
	}
	var logoConfig any
	if len(update.LogoConfig) > 0 {
		logoConfig = string(update.LogoConfig)
	}

	result := r.db.WithContext(ctx).
		Model(&models.Team{}).
		Where("id = ?", update.TeamID).
		Updates(map[string]any{
			"logo_url":    logoURL,
			"logo_config": logoConfig,
			"mdate":       gorm.Expr("clock_timestamp()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "team"}
	}
	return nil
}

func teamToDomain(t models.Team) domain.Team {
	team := domain.Team{
		ID:      t.ID,
		Name:    t.Name,
		UserID:  t.UserID,
		LogoURL: t.LogoURL,
		CDate:   t.CDate,
	}
	if t.LogoConfig != nil {
		team.LogoConfig = json.RawMessage(*t.LogoConfig)
	}
	return team
}
