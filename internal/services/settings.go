package services

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"github.com/happygreeting/billing-app/internal/models"
)

// settingsRowID: the settings live in a single record, rewritten wholesale.
const settingsRowID = 1

// SettingsService loads the company profile at startup and persists it on
// every change. Readers get a value copy; nothing shares mutable state.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService { return &SettingsService{DB: db} }

// DefaultSettings is the out-of-the-box company profile used until the user
// saves their own.
func DefaultSettings() models.AppSettings {
	return models.AppSettings{
		CompanyName:      "Happy Greeting",
		Tagline:          "Memories in Ink, Emotions on Paper",
		OfficeAddress:    "18a, 4th Lane, Nungambakkam High Rd,\nChennai, Tamil Nadu 600034",
		OfficePhone:      "8668142294",
		Email:            "happygreetingtoyou@gmail.com",
		MsmeNo:           "UDYAM-TN-02-0037689",
		UpiID:            "9092078319@okbizaxis",
		FooterMessage:    "Thank you for shopping with Happy Greeting!",
		SubFooterMessage: "Please visit us again.",
		GoogleReviewURL:  "https://g.page/r/CWwRZhiMQy2xEBM/review",
	}
}

func (s *SettingsService) Get(ctx context.Context) (models.AppSettings, error) {
	var rec models.SettingsRecord
	err := s.DB.WithContext(ctx).First(&rec, settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return models.AppSettings{}, err
	}
	var settings models.AppSettings
	if err := json.Unmarshal([]byte(rec.Data), &settings); err != nil {
		return models.AppSettings{}, err
	}
	return settings, nil
}

func (s *SettingsService) Save(ctx context.Context, in models.AppSettings) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	rec := models.SettingsRecord{ID: settingsRowID, Data: string(data)}
	return s.DB.WithContext(ctx).Save(&rec).Error
}
