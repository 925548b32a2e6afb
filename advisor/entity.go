package advisor

import (
	"regexp"
	"strings"

	"github.com/mayanksahani2004/kisan-saathi-ai/refdata"
)

// Store is the read-only reference data the advisor consults. Satisfied by
// *refdata.Store; tests can substitute a smaller fixture.
type Store interface {
	Crops() []refdata.Crop
	Regions() []refdata.Region
	Diseases() []refdata.DiseaseRecord
	MarketQuotes(cropID, regionID string) []refdata.MarketQuote
	CropByID(id string) (refdata.Crop, bool)
}

// stapleSynonyms covers script and transliteration variants for the most
// commonly asked-about crops that the localized dataset names alone miss
// (romanized Hindi in particular). Checked only after the dataset names.
var stapleSynonyms = []struct {
	cropID string
	re     *regexp.Regexp
}{
	{"potato", regexp.MustCompile(`(?i)potato|aloo|आलू|உருளைக்கிழங்கு`)},
	{"tomato", regexp.MustCompile(`(?i)tomato|tamatar|टमाटर|தக்காளி`)},
	{"onion", regexp.MustCompile(`(?i)onion|pyaz|प्याज|வெங்காயம்`)},
}

// ExtractCrop finds the first dataset crop mentioned in text, matching the
// crop ID and every localized display name case-insensitively, then falling
// back to the staple synonym patterns. Crops are scanned in dataset order,
// so results are deterministic. Returns false when no crop is mentioned.
func ExtractCrop(text string, store Store) (refdata.Crop, bool) {
	msg := strings.ToLower(text)
	for _, crop := range store.Crops() {
		if containsTerm(msg, crop.ID) {
			return crop, true
		}
		for _, name := range crop.Names {
			if name != "" && containsTerm(msg, strings.ToLower(name)) {
				return crop, true
			}
		}
	}
	for _, syn := range stapleSynonyms {
		if syn.re.MatchString(text) {
			if crop, ok := store.CropByID(syn.cropID); ok {
				return crop, true
			}
		}
	}
	return refdata.Crop{}, false
}

// containsTerm reports whether msg mentions term. ASCII terms must sit on
// word boundaries so that "price" never matches the crop "rice"; non-Latin
// terms use plain substring search, which is adequate for Indic scripts.
func containsTerm(msg, term string) bool {
	if term == "" {
		return false
	}
	if !isASCIIWord(term) {
		return strings.Contains(msg, term)
	}
	for from := 0; ; {
		i := strings.Index(msg[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		if (start == 0 || !isASCIILetter(msg[start-1])) &&
			(end == len(msg) || !isASCIILetter(msg[end])) {
			return true
		}
		from = start + 1
	}
}

func isASCIIWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isASCIILetter(s[i]) && s[i] != ' ' {
			return false
		}
	}
	return true
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
