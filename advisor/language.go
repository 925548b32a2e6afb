// Package advisor implements the multilingual assistant pipeline:
// script detection, intent classification, crop extraction, per-intent
// resolvers, and localized response templates, with an optional hosted
// model in front and the rule-based path as the always-available fallback.
package advisor

import "unicode"

// Language identifies a supported UI/response language.
type Language string

const (
	LangEnglish   Language = "en"
	LangHindi     Language = "hi"
	LangTamil     Language = "ta"
	LangKannada   Language = "kn"
	LangTelugu    Language = "te"
	LangMarathi   Language = "mr"
	LangMalayalam Language = "ml"
)

// Languages lists every supported language.
var Languages = []Language{
	LangEnglish, LangHindi, LangTamil, LangKannada,
	LangTelugu, LangMarathi, LangMalayalam,
}

// DetectLanguage returns the language of the first recognized Indic script
// found in text, or English when none matches. Pure; never fails.
//
// Known limitation: Hindi and Marathi share Devanagari, so script alone
// cannot tell them apart; Devanagari resolves to Hindi here. Callers with
// a separate signal should use DetectLanguageHint.
func DetectLanguage(text string) Language {
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Devanagari, r):
			return LangHindi
		case unicode.Is(unicode.Tamil, r):
			return LangTamil
		case unicode.Is(unicode.Telugu, r):
			return LangTelugu
		case unicode.Is(unicode.Kannada, r):
			return LangKannada
		case unicode.Is(unicode.Malayalam, r):
			return LangMalayalam
		}
	}
	return LangEnglish
}

// DetectLanguageHint detects the script and uses the active UI language to
// break the Hindi/Marathi tie: Devanagari input with a Marathi UI resolves
// to Marathi.
func DetectLanguageHint(text string, uiLang Language) Language {
	detected := DetectLanguage(text)
	if detected == LangHindi && uiLang == LangMarathi {
		return LangMarathi
	}
	return detected
}
