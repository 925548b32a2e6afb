package advisor

import "strings"

// Intent is the recognized purpose of a farmer's message.
type Intent string

const (
	IntentSellAdvice        Intent = "sell_advice"
	IntentCultivationAdvice Intent = "cultivation_advice"
	IntentDiseaseRemedy     Intent = "disease_remedy"
	IntentWeatherInfo       Intent = "weather_info"
	IntentGeneral           Intent = "general"
)

// intentPriority fixes the order in which intents are checked. A message
// matching several categories always resolves to the earliest one, so
// "should I sell my sick tomatoes" is a sell question, not a disease one.
var intentPriority = []Intent{
	IntentSellAdvice,
	IntentCultivationAdvice,
	IntentDiseaseRemedy,
	IntentWeatherInfo,
}

// intentKeywords holds per-language marker terms for each intent. Matching
// is substring-based on the lowercased message, so Latin entries double as
// transliteration markers ("mandi", "bech") and code-mixed messages still
// classify. Every supported language has at least one marker per intent.
var intentKeywords = map[Intent]map[Language][]string{
	IntentSellAdvice: {
		LangEnglish:   {"sell", "market", "price", "rate", "mandi", "apmc", "bhav", "bech"},
		LangHindi:     {"मंडी", "भाव", "बेच", "दाम", "कीमत", "बाजार"},
		LangMarathi:   {"विक्री", "बाजारभाव", "विका"},
		LangTamil:     {"விற்க", "விலை", "சந்தை"},
		LangTelugu:    {"అమ్మ", "ధర", "మార్కెట్"},
		LangKannada:   {"ಮಾರಾಟ", "ಬೆಲೆ", "ಮಾರುಕಟ್ಟೆ"},
		LangMalayalam: {"വിൽക്ക", "വില", "വിപണി"},
	},
	IntentCultivationAdvice: {
		LangEnglish:   {"sow", "plant", "grow", "cultivat", "season", "kharif", "rabi", "fertilizer", "irrigat", "buwai"},
		LangHindi:     {"बुवाई", "बोना", "खेती", "उगा", "खाद", "सिंचाई"},
		LangMarathi:   {"पेरणी", "शेती", "लागवड"},
		LangTamil:     {"விதைப்பு", "சாகுபடி", "பயிரிட"},
		LangTelugu:    {"విత్తన", "సాగు", "పంట వేయ"},
		LangKannada:   {"ಬಿತ್ತನೆ", "ಕೃಷಿ", "ಬೆಳೆಯ"},
		LangMalayalam: {"വിത", "കൃഷി", "നടീൽ"},
	},
	IntentDiseaseRemedy: {
		LangEnglish:   {"disease", "pest", "spot", "blight", "fungus", "mildew", "wilt", "yellow leaves", "insect", "keeda", "rog"},
		LangHindi:     {"रोग", "बीमारी", "कीड़", "कीट", "धब्बे", "फफूंद"},
		LangMarathi:   {"कीड", "बुरशी"},
		LangTamil:     {"நோய்", "பூச்சி", "பூஞ்சை"},
		LangTelugu:    {"తెగులు", "పురుగు", "వ్యాధి"},
		LangKannada:   {"ರೋಗ", "ಕೀಟ", "ಶಿಲೀಂಧ್ರ"},
		LangMalayalam: {"രോഗം", "കീടം", "പൂപ്പൽ"},
	},
	IntentWeatherInfo: {
		LangEnglish:   {"weather", "rain", "forecast", "temperature", "humidity", "sunny", "cloud", "mausam", "baarish"},
		LangHindi:     {"मौसम", "बारिश", "धूप", "गर्मी", "बादल"},
		LangMarathi:   {"हवामान", "पाऊस"},
		LangTamil:     {"வானிலை", "மழை", "வெயில்"},
		LangTelugu:    {"వాతావరణం", "వర్షం", "ఎండ"},
		LangKannada:   {"ಹವಾಮಾನ", "ಮಳೆ", "ಬಿಸಿಲು"},
		LangMalayalam: {"കാലാവസ്ഥ", "മഴ", "ചൂട്"},
	},
}

// ClassifyIntent assigns an Intent to a free-form message. All language
// tables are consulted regardless of the detected script, and a message
// matching nothing is IntentGeneral. Pure; never fails.
func ClassifyIntent(text string) Intent {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return IntentGeneral
	}
	for _, intent := range intentPriority {
		for _, keywords := range intentKeywords[intent] {
			for _, kw := range keywords {
				if strings.Contains(msg, kw) {
					return intent
				}
			}
		}
	}
	return IntentGeneral
}

// Keywords returns the marker terms for one intent and language. Used by
// tests and the API surface that exposes the classifier's vocabulary.
func Keywords(intent Intent, lang Language) []string {
	return intentKeywords[intent][lang]
}
