package handlers

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/happygreeting/billing-app/internal/models"
	"github.com/happygreeting/billing-app/internal/services"
	"github.com/happygreeting/billing-app/internal/store"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Invoice{}, &models.LineItem{}, &models.Product{}, &models.SettingsRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newInvoiceHandler(t *testing.T) (*InvoiceHandler, *store.GormStore) {
	t.Helper()
	db := setupTestDB(t)
	log := quietLogger()
	st := store.NewGormStore(db, log)
	return NewInvoiceHandler(st, services.NewProductService(db), services.NewSettingsService(db), log), st
}
