package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fixmate/internal/catalog"
	"fixmate/internal/database"
	"fixmate/internal/models"
	"fixmate/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type pricingEntry struct {
	Brand      string `yaml:"brand"`
	Model      string `yaml:"model"`
	Issue      string `yaml:"issue"`
	Price      int64  `yaml:"price"`
	RangePrice int64  `yaml:"rangePrice"`
}

var importPricingCmd = &cobra.Command{
	Use:   "import-pricing FILE",
	Short: "Upsert pricing rules from a YAML file",
	Long: `Reads a YAML list of pricing rules (amounts in cents) and upserts each
one on its brand/model/issue key. Use "-" to read from stdin.

Example file:
  - brand: Apple
    model: iPhone 14
    issue: Screen Replacement
    price: 15900
  - brand: Apple
    model: iPhone 14
    issue: Battery Replacement
    price: 9900
    rangePrice: 2000`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		rules, err := parsePricing(r)
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			return err
		}

		repo := repository.NewPricingRepository(db)
		for _, rule := range rules {
			if _, err := repo.Upsert(cmd.Context(), rule); err != nil {
				return err
			}
		}
		logger.Info("pricing imported", zap.Int("rules", len(rules)))
		return nil
	},
}

// parsePricing decodes and validates the whole file before anything is written.
func parsePricing(r io.Reader) ([]models.PricingRule, error) {
	var entries []pricingEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode pricing file: %w", err)
	}

	seen := map[string]int{}
	rules := make([]models.PricingRule, 0, len(entries))
	for i, e := range entries {
		rule := models.PricingRule{
			Brand:      strings.TrimSpace(e.Brand),
			Model:      strings.TrimSpace(e.Model),
			Issue:      strings.TrimSpace(e.Issue),
			Price:      e.Price,
			RangePrice: e.RangePrice,
		}
		switch {
		case rule.Brand == "" || rule.Model == "" || rule.Issue == "":
			return nil, fmt.Errorf("entry %d: brand, model, issue are required", i+1)
		case rule.Price <= 0:
			return nil, fmt.Errorf("entry %d: price must be > 0 (cents)", i+1)
		case rule.RangePrice < 0:
			return nil, fmt.Errorf("entry %d: rangePrice must be >= 0", i+1)
		}

		key := catalog.Key(rule.Brand, rule.Model) + catalog.KeySeparator + rule.Issue
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("entry %d duplicates entry %d", i+1, prev)
		}
		seen[key] = i + 1
		rules = append(rules, rule)
	}
	return rules, nil
}
