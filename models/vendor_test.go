package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldRatingFromZero(t *testing.T) {
	vendor := Vendor{}

	vendor.FoldRating(4)

	assert.Equal(t, 4.0, vendor.RatingAverage)
	assert.Equal(t, 1, vendor.RatingCount)
}

func TestFoldRatingRunningAverage(t *testing.T) {
	vendor := Vendor{}

	for _, r := range []float64{5, 3, 4, 4} {
		vendor.FoldRating(r)
	}

	assert.Equal(t, 4, vendor.RatingCount)
	assert.InDelta(t, 4.0, vendor.RatingAverage, 1e-9)
}

func TestFoldRatingUsesExistingPairNotHistory(t *testing.T) {
	// A vendor with a pre-existing (average, count) pair folds one new
	// rating into it without any raw rating history
	vendor := Vendor{RatingAverage: 4.5, RatingCount: 10}

	vendor.FoldRating(2)

	assert.Equal(t, 11, vendor.RatingCount)
	assert.InDelta(t, (4.5*10+2)/11, vendor.RatingAverage, 1e-9)
}
