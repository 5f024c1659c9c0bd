package datamodels

import "time"

// HeadlineRecord is one row of the bulk news dataset. Timestamp is nil when the
// source value was missing or could not be parsed.
type HeadlineRecord struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Headline  string     `json:"headline"`
	Publisher string     `json:"publisher,omitempty"`
	URL       string     `json:"url,omitempty"`
	Stock     string     `json:"stock,omitempty"`
}

// Date returns the calendar date of the headline, or false when it has no valid timestamp.
func (h *HeadlineRecord) Date() (Date, bool) {
	if h.Timestamp == nil || h.Timestamp.IsZero() {
		return Date{}, false
	}
	return DateOf(*h.Timestamp), true
}

type ScoredHeadline struct {
	HeadlineRecord
	Polarity     float64 `json:"polarity"`
	Subjectivity float64 `json:"subjectivity"`
}

// DailySentimentRow is the per-date aggregate of scored headlines.
type DailySentimentRow struct {
	Date            Date    `json:"date"`
	AvgSentiment    float64 `json:"avg_sentiment"`
	HeadlineCount   int     `json:"headline_count"`
	AvgSubjectivity float64 `json:"avg_subjectivity"`
}

type HeadlineFeatures struct {
	LengthChars     int    `json:"length_chars"`
	LengthWords     int    `json:"length_words"`
	Date            *Date  `json:"date,omitempty"`
	Weekday         string `json:"weekday,omitempty"`
	Hour            *int   `json:"hour,omitempty"`
	PublisherDomain string `json:"publisher_domain,omitempty"`
}

type PublisherCount struct {
	Publisher string  `json:"publisher"`
	Count     int     `json:"count"`
	Share     float64 `json:"share"`
}
