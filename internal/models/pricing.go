package models

import "time"

// PricingRule is the stored price for one (brand, model, issue) triple.
// Amounts are in cents. RangePrice of zero means a fixed price.
type PricingRule struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Brand      string    `gorm:"size:80;not null;uniqueIndex:idx_pricing_key" json:"brand"`
	Model      string    `gorm:"size:120;not null;uniqueIndex:idx_pricing_key" json:"model"`
	Issue      string    `gorm:"size:120;not null;uniqueIndex:idx_pricing_key" json:"issue"`
	Price      int64     `gorm:"not null" json:"price"`
	RangePrice int64     `gorm:"not null;default:0" json:"rangePrice"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (PricingRule) TableName() string {
	return "pricing_rules"
}

// Bounds returns the low/high ends of the price range.
func (r PricingRule) Bounds() (low, high int64) {
	low = r.Price - r.RangePrice
	if low < 0 {
		low = 0
	}
	return low, r.Price + r.RangePrice
}
