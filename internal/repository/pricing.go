package repository

import (
	"context"
	"fmt"

	"fixmate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PricingRepository struct {
	db *gorm.DB
}

func NewPricingRepository(db *gorm.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

func (r *PricingRepository) List(ctx context.Context) ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := r.db.WithContext(ctx).
		Order("brand asc").Order("model asc").Order("issue asc").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	return rules, nil
}

// Find returns the rule for an exact (brand, model, issue) triple.
func (r *PricingRepository) Find(ctx context.Context, brand, model, issue string) (*models.PricingRule, error) {
	var rule models.PricingRule
	err := r.db.WithContext(ctx).
		Where("brand = ? AND model = ? AND issue = ?", brand, model, issue).
		First(&rule).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &rule, nil
}

// Upsert inserts the rule or replaces the price fields of the existing one.
func (r *PricingRepository) Upsert(ctx context.Context, rule models.PricingRule) (*models.PricingRule, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "brand"}, {Name: "model"}, {Name: "issue"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "range_price", "updated_at"}),
	}).Create(&rule).Error
	if err != nil {
		return nil, fmt.Errorf("upsert pricing rule: %w", err)
	}
	return r.Find(ctx, rule.Brand, rule.Model, rule.Issue)
}

func (r *PricingRepository) Delete(ctx context.Context, brand, model, issue string) (*models.PricingRule, error) {
	rule, err := r.Find(ctx, brand, model, issue)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&models.PricingRule{}, rule.ID).Error; err != nil {
		return nil, fmt.Errorf("delete pricing rule: %w", err)
	}
	return rule, nil
}
