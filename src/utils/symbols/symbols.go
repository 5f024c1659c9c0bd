package symbols

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"newscorr/src/datamodels"
	"newscorr/src/utils/errors"
)

// TickerDictionary maps canonical tickers to the other symbols the same
// company appears under in the news dataset (GOOG and GOOGL, META and FB).
type TickerDictionary struct {
	CanonicalToAliases map[string][]string
	AliasToCanonical   map[string]string
}

func NewTickerDictionary(aliases map[string][]string) *TickerDictionary {
	canonicalToAliases := make(map[string][]string)
	aliasToCanonical := make(map[string]string)
	for canonical, others := range aliases {
		canonical = strings.ToUpper(strings.TrimSpace(canonical))
		if canonical == "" {
			continue
		}
		normalized := make([]string, 0, len(others))
		for _, alias := range others {
			alias = strings.ToUpper(strings.TrimSpace(alias))
			if alias == "" || alias == canonical {
				continue
			}
			normalized = append(normalized, alias)
			aliasToCanonical[alias] = canonical
		}
		sort.Strings(normalized)
		canonicalToAliases[canonical] = normalized
		aliasToCanonical[canonical] = canonical
	}

	return &TickerDictionary{
		CanonicalToAliases: canonicalToAliases,
		AliasToCanonical:   aliasToCanonical,
	}
}

// NewTickerDictionaryFromConfig reads a json object of ticker -> alias list.
// An empty file path gives an empty dictionary.
func NewTickerDictionaryFromConfig(config *datamodels.SymbolsConfig) (*TickerDictionary, error) {
	if config == nil || config.FilePath == "" {
		return NewTickerDictionary(nil), nil
	}

	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open symbols file")
	}
	defer file.Close()

	aliases := make(map[string][]string)
	if err := json.NewDecoder(file).Decode(&aliases); err != nil {
		return nil, errors.WrapE(errors.ErrMalformedSource, err)
	}

	return NewTickerDictionary(aliases), nil
}

// Aliases returns the other symbols of ticker, never including ticker itself.
func (d *TickerDictionary) Aliases(ticker string) []string {
	canonical := d.Canonical(ticker)
	ticker = strings.ToUpper(ticker)

	aliases := make([]string, 0)
	if canonical != ticker {
		aliases = append(aliases, canonical)
	}
	for _, alias := range d.CanonicalToAliases[canonical] {
		if alias != ticker {
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// Canonical returns the canonical ticker for a symbol, or the upper-cased symbol when unknown.
func (d *TickerDictionary) Canonical(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if canonical, ok := d.AliasToCanonical[symbol]; ok {
		return canonical
	}
	return symbol
}
