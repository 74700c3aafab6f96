// Package catalog derives the brand/model/issue selection tree
// that the quote form uses from the stored pricing rules.
package catalog

import (
	"sort"

	"fixmate/internal/models"
)

// KeySeparator joins brand and model in IssuesByBrandModel keys.
const KeySeparator = "||"

type Catalog struct {
	Brands             []string            `json:"brands"`
	ModelsByBrand      map[string][]string `json:"modelsByBrand"`
	IssuesByBrandModel map[string][]string `json:"issuesByBrandModel"`
}

func Key(brand, model string) string {
	return brand + KeySeparator + model
}

func Empty() Catalog {
	return Catalog{
		Brands:             []string{},
		ModelsByBrand:      map[string][]string{},
		IssuesByBrandModel: map[string][]string{},
	}
}

// Build groups rules into deduplicated, sorted lists.
func Build(rules []models.PricingRule) Catalog {
	brands := map[string]struct{}{}
	modelsByBrand := map[string]map[string]struct{}{}
	issuesByKey := map[string]map[string]struct{}{}

	for _, r := range rules {
		brands[r.Brand] = struct{}{}
		addTo(modelsByBrand, r.Brand, r.Model)
		addTo(issuesByKey, Key(r.Brand, r.Model), r.Issue)
	}

	out := Empty()
	out.Brands = sortedKeys(brands)
	for b, set := range modelsByBrand {
		out.ModelsByBrand[b] = sortedKeys(set)
	}
	for k, set := range issuesByKey {
		out.IssuesByBrandModel[k] = sortedKeys(set)
	}
	return out
}

func addTo(m map[string]map[string]struct{}, key, value string) {
	set, ok := m[key]
	if !ok {
		set = map[string]struct{}{}
		m[key] = set
	}
	set[value] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
