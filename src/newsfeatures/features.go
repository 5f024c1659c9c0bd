package newsfeatures

import (
	"sort"
	"strings"
	"unicode/utf8"

	"newscorr/src/datamodels"
)

// HeadlineLengths counts characters (runes) and whitespace separated words.
func HeadlineLengths(text string) (int, int) {
	return utf8.RuneCountInString(text), len(strings.Fields(text))
}

// Extract derives the EDA features of one headline. Date, weekday and hour
// are left empty when the record has no valid timestamp.
func Extract(record datamodels.HeadlineRecord) datamodels.HeadlineFeatures {
	chars, words := HeadlineLengths(record.Headline)
	features := datamodels.HeadlineFeatures{
		LengthChars:     chars,
		LengthWords:     words,
		PublisherDomain: PublisherDomain(record.Publisher),
	}
	if date, ok := record.Date(); ok {
		hour := record.Timestamp.Hour()
		features.Date = &date
		features.Weekday = record.Timestamp.Weekday().String()
		features.Hour = &hour
	}
	return features
}

func ExtractAll(records []datamodels.HeadlineRecord) []datamodels.HeadlineFeatures {
	features := make([]datamodels.HeadlineFeatures, len(records))
	for i, record := range records {
		features[i] = Extract(record)
	}
	return features
}

// PublisherCounts counts headlines per publisher, most frequent first and
// ties broken by name. Share is the fraction of all counted headlines.
func PublisherCounts(records []datamodels.HeadlineRecord) []datamodels.PublisherCount {
	counts := make(map[string]int)
	for _, record := range records {
		counts[record.Publisher]++
	}

	result := make([]datamodels.PublisherCount, 0, len(counts))
	for publisher, count := range counts {
		result = append(result, datamodels.PublisherCount{
			Publisher: publisher,
			Count:     count,
			Share:     float64(count) / float64(len(records)),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Publisher < result[j].Publisher
	})
	return result
}

// PublisherDomain returns the part after the last '@' when the publisher is an
// email address, else "".
func PublisherDomain(publisher string) string {
	idx := strings.LastIndex(publisher, "@")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(publisher[idx+1:]))
}
