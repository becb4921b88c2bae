package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/mentorat/leads-api/internal/models"
)

// LeadRepository persists captured leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
}

type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository constructs a repository backed by GORM.
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(lead).Error
}

// ErrorCode extracts the store's error code for log correlation. Falls back
// to "unknown" when the driver did not surface a coded error.
func ErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return "unknown"
}
