package db

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/happygreeting/billing-app/internal/config"
	"github.com/happygreeting/billing-app/internal/models"
)

// ConnectAndMigrate opens the database named by dsn (Postgres URL/key-value
// form, otherwise a SQLite path) and brings the schema up to date.
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, errors.New("empty DSN, check DATABASE_DSN")
	}
	log := config.GetLogger()

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	if IsPostgres(dsn) {
		for i := 0; i < 10; i++ {
			db, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			log.WithError(err).Warn("retrying DB connection")
			time.Sleep(2 * time.Second)
		}
	} else {
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.WithField("dsn", maskDSN(dsn)).Info("database connected")

	// MIGRATIONS=1 runs versioned SQL migrations (Postgres); otherwise
	// AutoMigrate keeps development databases current.
	if v := strings.ToLower(os.Getenv("MIGRATIONS")); IsPostgres(dsn) && (v == "1" || v == "true" || v == "yes") {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range []interface{}{
			&models.Invoice{}, &models.LineItem{}, &models.Product{}, &models.SettingsRecord{},
		} {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(db)
	}
	return db, nil
}

func maskDSN(dsn string) string {
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	return masked
}

// seed inserts the default greeting-card catalog. Existing products (matched
// by name) are left alone, so reruns are safe.
func seed(db *gorm.DB) {
	defaults := []models.Product{
		{Name: "Ready-made Card (Any Occasion)", Type: models.ProductReadymade, Price: 250},
		{Name: "Personalized Card", Type: models.ProductPersonalized, Price: 500},
		{Name: "Design Revision Fee", Type: models.ProductPersonalized, Price: 50},
		{Name: "Birthday Card", Type: models.ProductReadymade, Price: 250},
		{Name: "Christmas Card", Type: models.ProductReadymade, Price: 250},
		{Name: "Farewell Card", Type: models.ProductReadymade, Price: 250},
		{Name: "Best Wishes Card", Type: models.ProductReadymade, Price: 250},
		{Name: "Get Well Soon Card", Type: models.ProductReadymade, Price: 250},
		{Name: "Congratulations Card", Type: models.ProductReadymade, Price: 250},
		{Name: "Thank You Greeting Card", Type: models.ProductReadymade, Price: 250},
		{Name: "Womens Day Special", Type: models.ProductReadymade, Price: 250},
		{Name: "Ramzan Special – Eid Mubarak", Type: models.ProductReadymade, Price: 250},
	}
	for _, p := range defaults {
		var existing models.Product
		if err := db.Where("name = ?", p.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&p)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
