package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palika_profile/models"
)

func deliveryPlace(t *testing.T) models.Feature {
	t.Helper()
	f, ok := models.FeatureByKey("delivery-place")
	require.True(t, ok)
	return f
}

func TestAggregateSharesAndIndex(t *testing.T) {
	f := deliveryPlace(t)

	records := []models.WardStat{
		{WardNumber: 1, CategoryCode: "GOVERNMENTAL_HEALTH_INSTITUTION", Count: 40},
		{WardNumber: 1, CategoryCode: "PRIVATE_HEALTH_INSTITUTION", Count: 20},
		{WardNumber: 1, CategoryCode: "HOUSE", Count: 35},
		{WardNumber: 1, CategoryCode: "OTHER", Count: 5},
	}

	agg := Aggregate(f, records)

	assert.Equal(t, 100, agg.GrandTotal)
	require.Len(t, agg.Shares, 4)
	assert.Equal(t, 40.0, agg.Shares[0].Percentage)
	assert.Equal(t, 20.0, agg.Shares[1].Percentage)
	assert.Equal(t, 35.0, agg.Shares[2].Percentage)
	assert.Equal(t, 5.0, agg.Shares[3].Percentage)

	// Institutional index sums the two health institution shares, and 60
	// lands exactly on the inclusive "good" boundary.
	assert.Equal(t, 60.0, agg.Index)
	assert.Equal(t, "good", agg.IndexBand)
	assert.Equal(t, "राम्रो", agg.IndexBandNp)
	assert.Equal(t, "institutional delivery index", agg.IndexLabel)
}

func TestAggregateEmptyRecords(t *testing.T) {
	f := deliveryPlace(t)

	agg := Aggregate(f, nil)

	assert.Equal(t, 0, agg.GrandTotal)
	require.Len(t, agg.Shares, len(f.Categories))
	for _, share := range agg.Shares {
		assert.Equal(t, 0, share.Total)
		assert.Equal(t, 0.0, share.Percentage)
	}
	assert.Empty(t, agg.WardRows)
	assert.Nil(t, agg.BestWard)
	assert.Nil(t, agg.WorstWard)
	assert.Equal(t, 0.0, agg.Index)
	assert.Equal(t, "low", agg.IndexBand)
}

func TestAggregateWardRanking(t *testing.T) {
	f := deliveryPlace(t)

	records := []models.WardStat{
		{WardNumber: 1, CategoryCode: "GOVERNMENTAL_HEALTH_INSTITUTION", Count: 10},
		{WardNumber: 1, CategoryCode: "HOUSE", Count: 90},
		{WardNumber: 2, CategoryCode: "GOVERNMENTAL_HEALTH_INSTITUTION", Count: 90},
		{WardNumber: 2, CategoryCode: "HOUSE", Count: 10},
		{WardNumber: 3, CategoryCode: "PRIVATE_HEALTH_INSTITUTION", Count: 50},
		{WardNumber: 3, CategoryCode: "HOUSE", Count: 50},
	}

	agg := Aggregate(f, records)

	require.NotNil(t, agg.BestWard)
	require.NotNil(t, agg.WorstWard)
	assert.Equal(t, 2, agg.BestWard.WardNumber)
	assert.Equal(t, 90.0, agg.BestWard.Rate)
	assert.Equal(t, 1, agg.WorstWard.WardNumber)
	assert.Equal(t, 10.0, agg.WorstWard.Rate)
}

func TestAggregateRankingTieGoesToLowestWard(t *testing.T) {
	f := deliveryPlace(t)

	records := []models.WardStat{
		{WardNumber: 4, CategoryCode: "GOVERNMENTAL_HEALTH_INSTITUTION", Count: 30},
		{WardNumber: 4, CategoryCode: "HOUSE", Count: 70},
		{WardNumber: 7, CategoryCode: "GOVERNMENTAL_HEALTH_INSTITUTION", Count: 3},
		{WardNumber: 7, CategoryCode: "HOUSE", Count: 7},
	}

	agg := Aggregate(f, records)

	require.NotNil(t, agg.BestWard)
	require.NotNil(t, agg.WorstWard)
	assert.Equal(t, 4, agg.BestWard.WardNumber)
	assert.Equal(t, 4, agg.WorstWard.WardNumber)
}

func TestAggregateZeroTotalWardRatesZero(t *testing.T) {
	f := deliveryPlace(t)

	records := []models.WardStat{
		{WardNumber: 1, CategoryCode: "HOUSE", Count: 0},
	}

	agg := Aggregate(f, records)

	require.Len(t, agg.WardRates, 1)
	assert.Equal(t, 0.0, agg.WardRates[0].Rate)
}

func TestAggregateMergesDuplicateCategoryRows(t *testing.T) {
	f := deliveryPlace(t)

	records := []models.WardStat{
		{WardNumber: 2, CategoryCode: "HOUSE", Count: 3},
		{WardNumber: 2, CategoryCode: "HOUSE", Count: 4},
	}

	agg := Aggregate(f, records)

	require.Len(t, agg.WardRows, 1)
	assert.Equal(t, 7, agg.WardRows[0].Counts["HOUSE"])
	assert.Equal(t, 7, agg.WardRows[0].Total)
}

func TestAggregateNoRateWithoutPositiveCodes(t *testing.T) {
	f, ok := models.FeatureByKey("caste-population")
	require.True(t, ok)

	agg := Aggregate(f, []models.WardStat{
		{WardNumber: 1, CategoryCode: "BRAHMIN", Count: 100},
	})

	assert.Nil(t, agg.WardRates)
	assert.Nil(t, agg.BestWard)
	assert.Equal(t, 0.0, agg.Index)
	assert.Empty(t, agg.IndexBand)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 66.67, Percentage(2, 3))
	assert.Equal(t, 100.0, Percentage(7, 7))
}

func TestBandBoundariesAreInclusive(t *testing.T) {
	f := deliveryPlace(t)

	cases := []struct {
		index float64
		want  string
	}{
		{100, "excellent"},
		{80, "excellent"},
		{79.99, "good"},
		{60, "good"},
		{59.99, "medium"},
		{40, "medium"},
		{39.99, "low"},
		{0, "low"},
	}
	for _, tc := range cases {
		label, _ := Band(f.IndexBands, tc.index)
		assert.Equal(t, tc.want, label, "index %v", tc.index)
	}
}
