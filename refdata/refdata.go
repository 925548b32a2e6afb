// Package refdata holds the read-only reference tables the advisor queries:
// crops, regions, per-market mandi quotes, and the disease catalog.
// The dataset ships embedded; a file override exists for ops.
package refdata

import (
	"fmt"
	"strings"
)

// Severity levels a DiseaseRecord may carry.
const (
	SeverityLow      = "Low"
	SeverityModerate = "Moderate"
	SeverityHigh     = "High"
)

// Crop is one reference crop with its localized display names.
type Crop struct {
	ID    string            `yaml:"id" json:"id"`
	Emoji string            `yaml:"emoji" json:"emoji,omitempty"`
	Names map[string]string `yaml:"names" json:"names"`
}

// Name returns the display name for a language, falling back to English.
func (c Crop) Name(lang string) string {
	if n, ok := c.Names[lang]; ok && n != "" {
		return n
	}
	return c.Names["en"]
}

// Region is one reference region (state) with localized names.
type Region struct {
	ID    string            `yaml:"id" json:"id"`
	Names map[string]string `yaml:"names" json:"names"`
}

// Name returns the display name for a language, falling back to English.
func (r Region) Name(lang string) string {
	if n, ok := r.Names[lang]; ok && n != "" {
		return n
	}
	return r.Names["en"]
}

// MarketQuote is one mandi listing for a (crop, region) pair.
// Insertion order carries no meaning; ranking is always computed.
type MarketQuote struct {
	Market  string  `yaml:"market" json:"market"`
	Price   float64 `yaml:"price" json:"price"`   // ₹/kg, modal
	Change  float64 `yaml:"change" json:"change"` // percent, signed
	Arrival string  `yaml:"arrival" json:"arrival"`
	Grade   string  `yaml:"grade" json:"grade"`
}

// Action is one remedial step attached to a disease record.
type Action struct {
	Icon string `yaml:"icon" json:"icon"`
	Text string `yaml:"text" json:"text"`
}

// DiseaseRecord is one catalog entry. The "healthy" sentinel is part of
// the same set.
type DiseaseRecord struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Severity    string   `yaml:"severity" json:"severity"`
	Confidence  int      `yaml:"confidence" json:"confidence"`
	Keywords    []string `yaml:"keywords" json:"keywords,omitempty"`
	Description string   `yaml:"description" json:"description"`
	Actions     []Action `yaml:"actions" json:"actions"`
}

// Matches reports whether the record's id or any keyword occurs in the
// normalized text.
func (d DiseaseRecord) Matches(text string) bool {
	text = strings.ToLower(text)
	if strings.Contains(text, strings.ReplaceAll(d.ID, "_", " ")) {
		return true
	}
	for _, kw := range d.Keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (d DiseaseRecord) validate() error {
	if d.Confidence < 0 || d.Confidence > 100 {
		return fmt.Errorf("disease %s: confidence %d out of range [0,100]", d.ID, d.Confidence)
	}
	switch d.Severity {
	case SeverityLow, SeverityModerate, SeverityHigh:
		return nil
	default:
		return fmt.Errorf("disease %s: unknown severity %q", d.ID, d.Severity)
	}
}
