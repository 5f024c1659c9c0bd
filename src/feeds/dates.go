package feeds

import (
	"strings"
	"time"

	"newscorr/src/utils/errors"
)

// TimestampLayouts are tried in order when parsing date cells.
var TimestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339,
	time.RFC3339Nano,
	"01/02/2006",
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
}

// ParseTimestamp parses a date cell with the first matching layout. Values
// without a zone are UTC; values with an offset keep it.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.Wrap(errors.ErrMalformedSource, "empty date")
	}
	for _, layout := range TimestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(errors.ErrMalformedSource, "unrecognized date %q", value)
}
