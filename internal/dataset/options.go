package dataset

import (
	"sort"

	"github.com/starford/clusterscope/internal/models"
)

// DeriveOptions computes the category list ("All" first, then the sorted
// distinct categories) and the timestamp bounds over non-null values.
// If no record has a timestamp the date filter is disabled.
func DeriveOptions(t *Table) models.FilterOptionSet {
	seen := make(map[string]struct{})
	var cats []string
	var opts models.FilterOptionSet

	for _, r := range t.records {
		if _, ok := seen[r.Category]; !ok {
			seen[r.Category] = struct{}{}
			cats = append(cats, r.Category)
		}
		if !r.CreatedAt.Valid {
			continue
		}
		if !opts.MinDate.Valid || r.CreatedAt.Time.Before(opts.MinDate.Time) {
			opts.MinDate = r.CreatedAt
		}
		if !opts.MaxDate.Valid || r.CreatedAt.Time.After(opts.MaxDate.Time) {
			opts.MaxDate = r.CreatedAt
		}
	}
	sort.Strings(cats)

	opts.Categories = append([]string{models.CategoryAll}, cats...)
	opts.DateFilterEnabled = opts.MinDate.Valid
	return opts
}
