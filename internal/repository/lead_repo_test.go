package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mentorat/leads-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Lead{}))
	return db
}

func TestLeadRepositoryCreateAssignsID(t *testing.T) {
	repo := NewLeadRepository(setupTestDB(t))

	telegram := "@abc123"
	lead := models.Lead{
		Name:     "Test User",
		Phone:    "+380501234567",
		Telegram: &telegram,
		Source:   "consultation_modal",
	}

	require.NoError(t, repo.Create(context.Background(), &lead))
	require.NotEmpty(t, lead.ID)

	_, err := uuid.Parse(lead.ID)
	require.NoError(t, err)
}

func TestLeadRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLeadRepository(db)

	email := "test@example.com"
	userAgent := "Mozilla/5.0"
	lead := models.Lead{
		Name:      "Test User",
		Phone:     "1234567",
		Email:     &email,
		Source:    "consultation_modal",
		UserAgent: &userAgent,
	}
	require.NoError(t, repo.Create(context.Background(), &lead))

	var stored models.Lead
	require.NoError(t, db.First(&stored, "id = ?", lead.ID).Error)
	require.Equal(t, "Test User", stored.Name)
	require.NotNil(t, stored.Email)
	require.Equal(t, email, *stored.Email)
	require.Nil(t, stored.Telegram)
	require.NotNil(t, stored.UserAgent)
	require.False(t, stored.CreatedAt.IsZero())
}

func TestErrorCodeFallback(t *testing.T) {
	require.Equal(t, "unknown", ErrorCode(gorm.ErrInvalidData))
}
