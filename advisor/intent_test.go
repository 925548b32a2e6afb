package advisor

import "testing"

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"sell english", "Where can I sell my wheat?", IntentSellAdvice},
		{"sell transliterated", "aaj mandi ka bhav kya hai", IntentSellAdvice},
		{"sell hindi", "क्या मैं आज बेच सकता हूँ", IntentSellAdvice},
		{"sell tamil", "தக்காளி விலை என்ன", IntentSellAdvice},
		{"cultivation english", "When should I sow wheat this season?", IntentCultivationAdvice},
		{"cultivation hindi", "गेहूं की बुवाई कब करें", IntentCultivationAdvice},
		{"cultivation marathi", "कापसाची पेरणी कधी करावी", IntentCultivationAdvice},
		{"disease english", "My tomato leaves have brown spots and fungus", IntentDiseaseRemedy},
		{"disease hindi", "फसल में कीड़े लग गए हैं", IntentDiseaseRemedy},
		{"disease telugu", "పంటకు తెగులు వచ్చింది", IntentDiseaseRemedy},
		{"weather english", "Will it rain tomorrow?", IntentWeatherInfo},
		{"weather hindi", "आज मौसम कैसा है", IntentWeatherInfo},
		{"weather kannada", "ನಾಳೆ ಮಳೆ ಬರುತ್ತದೆಯೇ", IntentWeatherInfo},
		{"weather malayalam", "നാളെ മഴ ഉണ്ടാകുമോ", IntentWeatherInfo},
		{"general greeting", "hello there", IntentGeneral},
		{"general hindi", "नमस्ते", IntentGeneral},
		{"empty", "", IntentGeneral},
		{"whitespace", "   ", IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntent(tt.text); got != tt.want {
				t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// A message matching several categories resolves to the highest-priority
// one: sell beats cultivation beats disease beats weather.
func TestClassifyIntentPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"sell beats disease", "should I sell my crop with fungus", IntentSellAdvice},
		{"sell beats weather", "is the market price good before the rain", IntentSellAdvice},
		{"cultivation beats weather", "should I sow before the rain", IntentCultivationAdvice},
		{"disease beats weather", "fungus spreading after the rain", IntentDiseaseRemedy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntent(tt.text); got != tt.want {
				t.Errorf("ClassifyIntent(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Every supported language carries markers for every intent, and each
// marker on its own classifies to exactly that intent.
func TestKeywordCoverage(t *testing.T) {
	intents := []Intent{
		IntentSellAdvice, IntentCultivationAdvice,
		IntentDiseaseRemedy, IntentWeatherInfo,
	}
	for _, intent := range intents {
		for _, lang := range Languages {
			keywords := Keywords(intent, lang)
			if len(keywords) == 0 {
				t.Errorf("no %s keywords for language %s", intent, lang)
				continue
			}
			for _, kw := range keywords {
				if got := ClassifyIntent(kw); got != intent {
					t.Errorf("keyword %q (%s/%s) classified as %q", kw, lang, intent, got)
				}
			}
		}
	}
}
