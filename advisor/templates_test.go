package advisor

import (
	"strings"
	"testing"
)

// English is the fallback table, so it must carry every key.
func TestEnglishTemplateSetIsComplete(t *testing.T) {
	keys := []templateKey{
		tplGreeting, tplWhichCrop, tplSellNow, tplSellWait,
		tplCultivateFavorable, tplCultivateChallenging,
		tplDiseaseRemedy, tplWeatherNow, tplWeatherUnavailable,
	}
	for _, key := range keys {
		if templates[LangEnglish][key] == "" {
			t.Errorf("missing English template %q", key)
		}
		if templates[LangHindi][key] == "" {
			t.Errorf("missing Hindi template %q", key)
		}
	}
}

func TestRenderTemplateSubstitutesPlaceholders(t *testing.T) {
	got := renderTemplate(LangEnglish, tplSellNow, map[string]string{
		"crop": "Potato", "market": "Mumbai", "price": "38", "change": "2.1",
	})
	for _, want := range []string{"Potato", "Mumbai", "₹38/kg", "2.1%"} {
		if !strings.Contains(got, want) {
			t.Errorf("rendered template missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "{") {
		t.Errorf("unsubstituted placeholder left in %q", got)
	}
}

// Partial language tables fall back to English key by key.
func TestRenderTemplateFallsBackToEnglish(t *testing.T) {
	got := renderTemplate(LangTelugu, tplSellNow, map[string]string{
		"crop": "Tomato", "market": "Guntur", "price": "30", "change": "1",
	})
	if !strings.Contains(got, "Guntur") || !strings.Contains(got, "best market") {
		t.Errorf("telugu sell advice should fall back to English: %q", got)
	}

	// Languages with their own greeting keep it.
	if got := renderTemplate(LangTamil, tplGreeting, nil); !strings.Contains(got, "வணக்கம்") {
		t.Errorf("tamil greeting should stay Tamil: %q", got)
	}
	// Unknown languages render English.
	if got := renderTemplate(Language("xx"), tplGreeting, nil); !strings.Contains(got, "Kisan Saathi") {
		t.Errorf("unknown language should render English: %q", got)
	}
}

func TestGenericCropName(t *testing.T) {
	if genericCropName(LangHindi) == "" || genericCropName(LangEnglish) == "" {
		t.Error("generic crop names must exist for full languages")
	}
	if got := genericCropName(LangTelugu); got != genericCropNames[LangEnglish] {
		t.Errorf("telugu should fall back to the English generic name, got %q", got)
	}
}
