package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LeadStatus string

const (
	LeadNew    LeadStatus = "NEW"
	LeadQuoted LeadStatus = "QUOTED"
)

// Lead is a customer-submitted repair request.
type Lead struct {
	ID   string `gorm:"primaryKey;size:36"`
	Type string `gorm:"size:60;not null;index"`

	FullName string  `gorm:"size:255"`
	Email    *string `gorm:"size:255"`
	Phone    string  `gorm:"size:50;not null"`

	Brand   *string `gorm:"size:80"`
	Model   string  `gorm:"size:120;not null"`
	Issue   string  `gorm:"size:120;not null"`
	Message *string `gorm:"type:text"`

	PreferredDate *datatypes.Date
	PreferredTime *string `gorm:"size:40"`

	EstimatedPrice *int64 // cents

	Status     LeadStatus `gorm:"type:varchar(20);not null;default:'NEW';index"`
	FinalQuote *int64     // cents
	QuoteNotes *string    `gorm:"type:text"`
	QuotedAt   *time.Time

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (l *Lead) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = LeadNew
	}
	return nil
}

// MarkQuoted moves the lead to QUOTED with the given final quote.
// There is no transition back to NEW.
func (l *Lead) MarkQuoted(finalQuote int64, notes *string, at time.Time) {
	l.Status = LeadQuoted
	l.FinalQuote = &finalQuote
	l.QuoteNotes = notes
	l.QuotedAt = &at
}
