package sentiment

import (
	"strings"
	"unicode"

	"github.com/montanaflynn/stats"

	"newscorr/src/datamodels"
)

// Scorer turns a headline into polarity in [-1,1] and subjectivity in [0,1].
type Scorer interface {
	Score(text string) (polarity float64, subjectivity float64)
}

const negationFactor = -0.5

// LexiconScorer averages the lexicon hits of a text. An intensifier directly
// before a hit scales it, a negator before the hit (or before its intensifier)
// multiplies its polarity by -0.5.
type LexiconScorer struct {
	lexicon      map[string]LexiconEntry
	intensifiers map[string]float64
	negators     map[string]bool
}

type LexiconEntry struct {
	Polarity     float64
	Subjectivity float64
}

func NewLexiconScorer() *LexiconScorer {
	lexicon := make(map[string]LexiconEntry, len(generalLexicon)+len(financeLexicon))
	for word, entry := range generalLexicon {
		lexicon[word] = entry
	}
	for word, entry := range financeLexicon {
		lexicon[word] = entry
	}
	return &LexiconScorer{
		lexicon:      lexicon,
		intensifiers: intensifiers,
		negators:     negators,
	}
}

// WithEntries returns a copy of the scorer with extra or overriding lexicon entries.
func (ls *LexiconScorer) WithEntries(entries map[string]LexiconEntry) *LexiconScorer {
	lexicon := make(map[string]LexiconEntry, len(ls.lexicon)+len(entries))
	for word, entry := range ls.lexicon {
		lexicon[word] = entry
	}
	for word, entry := range entries {
		lexicon[strings.ToLower(word)] = entry
	}
	return &LexiconScorer{
		lexicon:      lexicon,
		intensifiers: ls.intensifiers,
		negators:     ls.negators,
	}
}

func (ls *LexiconScorer) Score(text string) (float64, float64) {
	tokens := tokenize(text)

	polarities := make([]float64, 0)
	subjectivities := make([]float64, 0)
	for i, token := range tokens {
		entry, ok := ls.lexicon[token]
		if !ok {
			continue
		}
		polarity, subjectivity := entry.Polarity, entry.Subjectivity

		j := i - 1
		if j >= 0 {
			if factor, ok := ls.intensifiers[tokens[j]]; ok {
				polarity *= factor
				subjectivity *= factor
				j--
			}
		}
		if j >= 0 && ls.isNegator(tokens[j]) {
			polarity *= negationFactor
		}

		polarities = append(polarities, clamp(polarity, -1, 1))
		subjectivities = append(subjectivities, clamp(subjectivity, 0, 1))
	}

	if len(polarities) == 0 {
		return 0, 0
	}

	polarity, _ := stats.Mean(polarities)
	subjectivity, _ := stats.Mean(subjectivities)
	return clamp(polarity, -1, 1), clamp(subjectivity, 0, 1)
}

func (ls *LexiconScorer) isNegator(token string) bool {
	return ls.negators[token] || strings.HasSuffix(token, "n't")
}

// ScoreHeadlines scores every record, one output per input in the same order.
func ScoreHeadlines(scorer Scorer, records []datamodels.HeadlineRecord) []datamodels.ScoredHeadline {
	scored := make([]datamodels.ScoredHeadline, len(records))
	for i, record := range records {
		polarity, subjectivity := scorer.Score(record.Headline)
		scored[i] = datamodels.ScoredHeadline{
			HeadlineRecord: record,
			Polarity:       polarity,
			Subjectivity:   subjectivity,
		}
	}
	return scored
}

func tokenize(text string) []string {
	text = strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
