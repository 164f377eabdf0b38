package models

import "time"

// AppSettings is the issuer's company profile. It is injected into new
// invoice drafts (phone, MSME number, email snapshots) and read by the
// rendering layer; the core never mutates it outside SettingsService.Save.
type AppSettings struct {
	CompanyName      string `json:"companyName"`
	Tagline          string `json:"tagline"`
	LogoURL          string `json:"logoUrl,omitempty"`
	OfficeAddress    string `json:"officeAddress"`
	OfficePhone      string `json:"officePhone"`
	Email            string `json:"email"`
	MsmeNo           string `json:"msmeNo"`
	UpiID            string `json:"upiId"`
	FooterMessage    string `json:"footerMessage,omitempty"`
	SubFooterMessage string `json:"subFooterMessage,omitempty"`
	GoogleReviewURL  string `json:"googleReviewUrl,omitempty"`
}

// SettingsRecord stores the settings as one JSON blob, rewritten wholesale on
// every change. No partial updates, no versioning.
type SettingsRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Data      string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
