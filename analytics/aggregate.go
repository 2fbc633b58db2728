package analytics

import (
	"math"
	"sort"

	"palika_profile/models"
)

// Page-level aggregation over a feature's flat record list. Everything here
// is a pure function of the records: ward rows, category shares, per-ward
// rates, best/worst ward, and the banded scalar index. Nothing is persisted.

// WardRow is one ward's counts per category plus the ward total.
type WardRow struct {
	WardNumber int            `json:"ward_number"`
	Counts     map[string]int `json:"counts"`
	Total      int            `json:"total"`
}

// CategoryShare is a category's total across all wards and its share of the
// grand total.
type CategoryShare struct {
	CategoryCode string  `json:"category_code"`
	LabelNp      string  `json:"label_np"`
	LabelEn      string  `json:"label_en"`
	Color        string  `json:"color"`
	Total        int     `json:"total"`
	Percentage   float64 `json:"percentage"`
}

// WardRate is one ward's positive-outcome rate.
type WardRate struct {
	WardNumber int     `json:"ward_number"`
	Rate       float64 `json:"rate"`
}

// FeatureAggregate is the shape the presentation layer consumes.
type FeatureAggregate struct {
	WardRows   []WardRow       `json:"ward_rows"`
	Shares     []CategoryShare `json:"shares"`
	GrandTotal int             `json:"grand_total"`

	// Present only for features with a positive-outcome subset.
	WardRates   []WardRate `json:"ward_rates,omitempty"`
	BestWard    *WardRate  `json:"best_ward,omitempty"`
	WorstWard   *WardRate  `json:"worst_ward,omitempty"`
	Index       float64    `json:"index,omitempty"`
	IndexLabel  string     `json:"index_label,omitempty"`
	IndexBand   string     `json:"index_band,omitempty"`
	IndexBandNp string     `json:"index_band_np,omitempty"`
}

// Aggregate groups, sums, ranks and bands in one pass over the records.
func Aggregate(f models.Feature, records []models.WardStat) FeatureAggregate {
	byWard := make(map[int]*WardRow)
	categoryTotals := make(map[string]int)
	grandTotal := 0

	for _, rec := range records {
		row, ok := byWard[rec.WardNumber]
		if !ok {
			row = &WardRow{WardNumber: rec.WardNumber, Counts: make(map[string]int)}
			byWard[rec.WardNumber] = row
		}
		row.Counts[rec.CategoryCode] += rec.Count
		row.Total += rec.Count
		categoryTotals[rec.CategoryCode] += rec.Count
		grandTotal += rec.Count
	}

	rows := make([]WardRow, 0, len(byWard))
	for _, row := range byWard {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].WardNumber < rows[j].WardNumber })

	shares := make([]CategoryShare, 0, len(f.Categories))
	for _, c := range f.Categories {
		shares = append(shares, CategoryShare{
			CategoryCode: c.Code,
			LabelNp:      c.LabelNp,
			LabelEn:      c.LabelEn,
			Color:        c.Color,
			Total:        categoryTotals[c.Code],
			Percentage:   Percentage(categoryTotals[c.Code], grandTotal),
		})
	}

	agg := FeatureAggregate{
		WardRows:   rows,
		Shares:     shares,
		GrandTotal: grandTotal,
	}

	if len(f.PositiveCodes) > 0 {
		agg.WardRates = wardRates(f, rows)
		agg.BestWard, agg.WorstWard = rankWards(agg.WardRates)

		index := 0.0
		for _, share := range shares {
			if f.IsPositive(share.CategoryCode) {
				index += share.Percentage
			}
		}
		agg.Index = Round2(index)
		agg.IndexLabel = f.IndexLabel
		agg.IndexBand, agg.IndexBandNp = Band(f.IndexBands, agg.Index)
	}

	return agg
}

// wardRates computes each ward's positive-outcome rate. A ward with total
// zero rates 0, never NaN.
func wardRates(f models.Feature, rows []WardRow) []WardRate {
	rates := make([]WardRate, 0, len(rows))
	for _, row := range rows {
		positive := 0
		for code, count := range row.Counts {
			if f.IsPositive(code) {
				positive += count
			}
		}
		rates = append(rates, WardRate{
			WardNumber: row.WardNumber,
			Rate:       Percentage(positive, row.Total),
		})
	}
	return rates
}

// rankWards picks the best (max rate) and worst (min rate) ward. Ties
// resolve to the lowest ward number; rates arrive sorted by ward, so the
// strict comparisons below keep the earlier ward on equality.
func rankWards(rates []WardRate) (best, worst *WardRate) {
	if len(rates) == 0 {
		return nil, nil
	}
	b, w := rates[0], rates[0]
	for _, r := range rates[1:] {
		if r.Rate > b.Rate {
			b = r
		}
		if r.Rate < w.Rate {
			w = r
		}
	}
	return &b, &w
}

// Percentage returns part/whole as a percentage rounded to 2 decimal
// places; a zero whole yields 0.
func Percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return Round2(float64(part) / float64(whole) * 100)
}

// Round2 rounds to 2 decimal places.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Band maps an index to its qualitative label. Band minima are inclusive:
// an index of exactly 60 with the default bands reads "good".
func Band(bands []models.IndexBand, index float64) (label, labelNp string) {
	for _, b := range bands {
		if index >= b.Min {
			return b.Label, b.LabelNp
		}
	}
	return "", ""
}
