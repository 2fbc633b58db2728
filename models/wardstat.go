package models

import (
	"fmt"
)

// WardStat is one row of a categorical ward statistic: how many people,
// households or events of one category were counted in one ward. Every
// demographic feature (delivery place, caste, religion, death cause, ...)
// stores records of this shape in its own table.
type WardStat struct {
	ID           string `json:"id"`
	WardNumber   int    `json:"ward_number"`
	CategoryCode string `json:"category_code"`
	Count        int    `json:"count"`
}

// Category is one value of a feature's closed enumeration, with the
// bilingual display labels and chart color used by the presentation layer.
// Labels are static lookup data, never stored per record.
type Category struct {
	Code    string `json:"code"`
	LabelNp string `json:"label_np"`
	LabelEn string `json:"label_en"`
	Color   string `json:"color"`
}

// IndexBand maps a scalar index to a qualitative label for narrative text.
// Bands are checked in order; the first whose Min is not exceeded wins.
type IndexBand struct {
	Min     float64
	Label   string
	LabelNp string
}

// Feature describes one categorical ward statistic: its storage tables, its
// closed category set, and (optionally) the "positive outcome" subset that
// defines a per-ward rate and a banded index. All CRUD, fallback and
// aggregation code is generic over this descriptor.
type Feature struct {
	Key         string `json:"key"`
	NameNp      string `json:"name_np"`
	NameEn      string `json:"name_en"`
	Table       string `json:"-"`
	LegacyTable string `json:"-"`

	// CountLabel names what the count measures: population, households, events.
	CountLabel string     `json:"count_label"`
	Categories []Category `json:"categories"`

	// PositiveCodes is the subset of categories treated as the desirable
	// outcome (e.g. institutional delivery). Empty when the feature has no
	// defined rate.
	PositiveCodes []string    `json:"positive_codes,omitempty"`
	IndexLabel    string      `json:"index_label,omitempty"`
	IndexBands    []IndexBand `json:"-"`
}

// HasCategory reports whether code is a member of the feature's enumeration.
func (f Feature) HasCategory(code string) bool {
	for _, c := range f.Categories {
		if c.Code == code {
			return true
		}
	}
	return false
}

// CategoryCodes returns the enumeration in declaration order.
func (f Feature) CategoryCodes() []string {
	codes := make([]string, 0, len(f.Categories))
	for _, c := range f.Categories {
		codes = append(codes, c.Code)
	}
	return codes
}

// IsPositive reports whether code belongs to the positive-outcome subset.
func (f Feature) IsPositive(code string) bool {
	for _, c := range f.PositiveCodes {
		if c == code {
			return true
		}
	}
	return false
}

// ValidateWardStat checks a record against the feature's contract. wardCount
// is the municipality-wide ward bound from configuration.
func ValidateWardStat(f Feature, rec WardStat, wardCount int) error {
	if rec.WardNumber <= 0 {
		return fmt.Errorf("ward number must be positive, got %d", rec.WardNumber)
	}
	if rec.WardNumber > wardCount {
		return fmt.Errorf("ward number %d exceeds municipality ward count %d", rec.WardNumber, wardCount)
	}
	if rec.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", rec.Count)
	}
	if !f.HasCategory(rec.CategoryCode) {
		return fmt.Errorf("unknown %s category: %q", f.Key, rec.CategoryCode)
	}
	return nil
}

// WardStatUpdate carries the fields of a partial update. Nil means "leave
// unchanged".
type WardStatUpdate struct {
	WardNumber   *int    `json:"ward_number,omitempty"`
	CategoryCode *string `json:"category_code,omitempty"`
	Count        *int    `json:"count,omitempty"`
}

// ValidateUpdate checks only the fields present in the update.
func ValidateUpdate(f Feature, upd WardStatUpdate, wardCount int) error {
	if upd.WardNumber != nil {
		if *upd.WardNumber <= 0 || *upd.WardNumber > wardCount {
			return fmt.Errorf("ward number must be in [1, %d], got %d", wardCount, *upd.WardNumber)
		}
	}
	if upd.Count != nil && *upd.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", *upd.Count)
	}
	if upd.CategoryCode != nil && !f.HasCategory(*upd.CategoryCode) {
		return fmt.Errorf("unknown %s category: %q", f.Key, *upd.CategoryCode)
	}
	return nil
}

// GroupedTotal is one row of a feature summary: a category's count summed
// across all wards.
type GroupedTotal struct {
	CategoryCode string `json:"category_code"`
	Total        int    `json:"total"`
}

// WardStatFilter narrows getAll results.
type WardStatFilter struct {
	WardNumber   *int
	CategoryCode *string
}

// Matches applies the filter to a single record. The legacy fallback reader
// uses this to re-apply predicates after shape-mapping legacy rows.
func (f WardStatFilter) Matches(rec WardStat) bool {
	if f.WardNumber != nil && rec.WardNumber != *f.WardNumber {
		return false
	}
	if f.CategoryCode != nil && rec.CategoryCode != *f.CategoryCode {
		return false
	}
	return true
}
