package repository

import (
	"context"
	"fmt"
	"strings"

	"fixmate/internal/models"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// searchColumns are matched case-insensitively by LeadFilter.Query.
var searchColumns = []string{"full_name", "email", "phone", "brand", "model", "issue"}

type LeadFilter struct {
	Query    string
	Type     string
	Status   models.LeadStatus
	Page     int
	PageSize int
}

type LeadPage struct {
	Total int64
	Items []models.Lead
}

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

func (r *LeadRepository) Save(ctx context.Context, lead *models.Lead) error {
	if err := r.db.WithContext(ctx).Save(lead).Error; err != nil {
		return fmt.Errorf("save lead %s: %w", lead.ID, err)
	}
	return nil
}

// Search returns one page of leads, newest first, and the total match count.
func (r *LeadRepository) Search(ctx context.Context, f LeadFilter) (*LeadPage, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Type != "" {
			db = db.Where("type = ?", f.Type)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if q := strings.TrimSpace(f.Query); q != "" {
			pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
			conds := make([]string, 0, len(searchColumns))
			args := make([]interface{}, 0, len(searchColumns))
			for _, col := range searchColumns {
				conds = append(conds, "LOWER(COALESCE("+col+", '')) LIKE ? ESCAPE '\\'")
				args = append(args, pattern)
			}
			db = db.Where(strings.Join(conds, " OR "), args...)
		}
		return db
	}

	var page LeadPage
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Lead{}).
			Scopes(scope).
			Count(&page.Total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).
			Scopes(scope).
			Order("created_at desc").Order("id desc").
			Offset((f.Page - 1) * f.PageSize).
			Limit(f.PageSize).
			Find(&page.Items).Error
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	return &page, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
