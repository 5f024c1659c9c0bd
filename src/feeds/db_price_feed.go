package feeds

import (
	"context"
	"strings"

	"newscorr/src/database"
	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// PriceDbFeed serves bars previously stored with database.PriceDatabase.WritePriceBars.
type PriceDbFeed struct {
	db    database.PriceDatabase
	start *datamodels.Date
	end   *datamodels.Date
}

func NewPriceDbFeed(db database.PriceDatabase) *PriceDbFeed {
	return &PriceDbFeed{db: db}
}

// WithRange limits the bars to [start, end]; nil bounds are open.
func (f *PriceDbFeed) WithRange(start, end *datamodels.Date) *PriceDbFeed {
	f.start = start
	f.end = end
	return f
}

func (f *PriceDbFeed) GetName() string {
	return "PriceDbFeed"
}

// LoadPrices returns ErrUpstreamUnavailable when the ticker has no stored bars.
func (f *PriceDbFeed) LoadPrices(ctx context.Context, ticker string) ([]datamodels.PriceBar, error) {
	if strings.TrimSpace(ticker) == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty ticker")
	}
	bars, err := f.db.GetPriceBars(ctx, ticker, f.start, f.end)
	if err != nil {
		return nil, errors.Wrapef(errors.ErrUpstreamUnavailable, err, "loading %s prices", ticker)
	}
	if len(bars) == 0 {
		return nil, errors.Wrapf(errors.ErrUpstreamUnavailable, "no stored prices for %s", ticker)
	}
	return bars, nil
}
