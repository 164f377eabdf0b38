package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/happygreeting/billing-app/internal/models"
)

func setupSettingsDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SettingsRecord{}))
	return db
}

func TestSettingsDefaultsWhenUnset(t *testing.T) {
	svc := NewSettingsService(setupSettingsDB(t))
	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)
}

func TestSettingsSaveRewritesWholesale(t *testing.T) {
	svc := NewSettingsService(setupSettingsDB(t))
	ctx := context.Background()

	in := DefaultSettings()
	in.CompanyName = "Card Corner"
	in.OfficePhone = "9000000000"
	require.NoError(t, svc.Save(ctx, in))

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)

	// A second save replaces the whole record, including cleared fields.
	in.FooterMessage = ""
	require.NoError(t, svc.Save(ctx, in))
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.FooterMessage)
	assert.Equal(t, "Card Corner", got.CompanyName)
}
