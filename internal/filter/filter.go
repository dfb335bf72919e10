// Package filter selects the dataset rows matching the dashboard controls.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/starford/clusterscope/internal/apperr"
	"github.com/starford/clusterscope/internal/models"
)

// Params are the resolved values of the filter controls.
//
// The date predicate is active only when both Start and End are set.
type Params struct {
	Category string
	Start    *time.Time
	End      *time.Time
}

// DateActive reports whether the date range predicate applies.
func (p Params) DateActive() bool {
	return p.Start != nil && p.End != nil
}

func (p Params) matchCategory(r *models.Record) bool {
	if p.Category == "" || p.Category == models.CategoryAll {
		return true
	}
	return r.Category == p.Category
}

func (p Params) matchDate(r *models.Record) bool {
	if !p.DateActive() {
		return true
	}
	if !r.CreatedAt.Valid {
		return false
	}
	t := r.CreatedAt.Time
	return !t.Before(*p.Start) && !t.After(*p.End)
}

// Match reports whether r passes both predicates.
func (p Params) Match(r *models.Record) bool {
	return p.matchCategory(r) && p.matchDate(r)
}

// Apply returns the records matching p in their original order. The input
// slice is not modified.
func Apply(records []models.Record, p Params) []models.Record {
	out := make([]models.Record, 0, len(records))
	for i := range records {
		if p.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// ParseParams resolves raw control values. Empty dates leave the bound
// unset. A date-only end bound covers the whole of that day.
func ParseParams(category, start, end string) (Params, error) {
	p := Params{Category: strings.TrimSpace(category)}
	if p.Category == "" {
		p.Category = models.CategoryAll
	}

	var err error
	if p.Start, err = parseBound(start, false); err != nil {
		return Params{}, fmt.Errorf("start_date: %w", err)
	}
	if p.End, err = parseBound(end, true); err != nil {
		return Params{}, fmt.Errorf("end_date: %w", err)
	}
	return p, nil
}

func parseBound(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: unrecognised date %q", apperr.ErrInvalidArgument, raw)
	}
	t = t.UTC()
	if endOfDay && isDateOnly(raw) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func isDateOnly(raw string) bool {
	_, err := time.Parse(time.DateOnly, raw)
	return err == nil
}
