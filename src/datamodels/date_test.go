package datamodels

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfDiscardsTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)
	evening := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, DateOf(morning), DateOf(evening))
	assert.Equal(t, "2024-01-01", DateOf(evening).String())
}

func TestDateOfUsesOwnLocation(t *testing.T) {
	eastern := time.FixedZone("EDT", -4*3600)
	late := time.Date(2020, 6, 5, 22, 30, 0, 0, eastern)
	// 02:30 UTC on the 6th, but the headline's own calendar date is the 5th
	assert.Equal(t, NewDate(2020, 6, 5), DateOf(late))
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, 1, 1)
	b := a.AddDays(1)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(NewDate(2024, 1, 1)))
	assert.Equal(t, NewDate(2024, 3, 1), NewDate(2024, 2, 30))
}

func TestDateTextRoundTrip(t *testing.T) {
	d := NewDate(2023, 12, 31)
	raw, err := json.Marshal(struct {
		Date Date `json:"date"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2023-12-31"}`, string(raw))

	var parsed struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, d, parsed.Date)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2022, 5, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2022, 5, 6), d)
	require.NoError(t, d.Scan("2021-02-03"))
	assert.Equal(t, NewDate(2021, 2, 3), d)
	assert.Error(t, d.Scan(42))
}

func TestPriceBarValidate(t *testing.T) {
	bar := PriceBar{
		Date:   NewDate(2023, 1, 2),
		Open:   Float(100),
		High:   Float(102),
		Low:    Float(99),
		Close:  Float(101),
		Volume: Float(1000),
	}
	assert.NoError(t, bar.Validate())

	bar.Close = Float(103)
	assert.Error(t, bar.Validate())

	bar.Close = Float(101)
	bar.Volume = Float(-1)
	assert.Error(t, bar.Validate())

	partial := PriceBar{Date: NewDate(2023, 1, 3), Close: Float(5)}
	assert.NoError(t, partial.Validate())
}

func TestIndicatorConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultIndicatorConfig().Validate())

	cfg := DefaultIndicatorConfig()
	cfg.MACDFast = 30
	assert.Error(t, cfg.Validate())

	cfg = DefaultIndicatorConfig()
	cfg.SMAPeriods = []int{20, 0}
	assert.Error(t, cfg.Validate())
}
