package advisor

import "strings"

// templateKey names one canned response shape.
type templateKey string

const (
	tplGreeting               templateKey = "greeting"
	tplWhichCrop              templateKey = "which_crop"
	tplSellNow                templateKey = "sell_now"
	tplSellWait               templateKey = "sell_wait"
	tplCultivateFavorable     templateKey = "cultivate_favorable"
	tplCultivateChallenging   templateKey = "cultivate_challenging"
	tplDiseaseRemedy          templateKey = "disease_remedy"
	tplWeatherNow             templateKey = "weather_now"
	tplWeatherUnavailable     templateKey = "weather_unavailable"
)

// templates holds localized response text with {placeholder} slots. English
// and Hindi carry the full set; the remaining languages are partial and any
// missing key falls back to the English rendering, so coverage can grow one
// language at a time without code changes elsewhere.
var templates = map[Language]map[templateKey]string{
	LangEnglish: {
		tplGreeting:             "Namaste! I am Kisan Saathi, your farming companion. You can ask me about market rates, weather, crop health, or general farming advice.",
		tplWhichCrop:            "I understand you want to sell your produce. Please tell me which crop (for example potato or tomato) so I can find you the best market rate.",
		tplSellNow:              "The best market for {crop} right now is {market} at ₹{price}/kg. Prices are falling ({change}%), so selling today is the safer choice.",
		tplSellWait:             "The best market for {crop} right now is {market} at ₹{price}/kg. Prices are holding firm ({change}%), so waiting 2-3 days may fetch you a better rate.",
		tplCultivateFavorable:   "Current conditions look favorable for {crop}: around {temp}°C supports steady growth. Prepare the soil well and follow your local sowing calendar.",
		tplCultivateChallenging: "It is around {temp}°C right now, which can be challenging for {crop}. Irrigate early in the morning, provide shade where possible, and avoid transplanting at midday.",
		tplDiseaseRemedy:        "From your description this could be {disease}. What you can do: {actions}. This is a first guess, not a confirmed diagnosis. For serious spread, please consult your local agricultural extension officer.",
		tplWeatherNow:           "The temperature in your area is around {temp}°C right now, with broadly stable conditions expected over the next day or two. Check the weather section for the full 7-day forecast.",
		tplWeatherUnavailable:   "I could not read the weather for your area just now. Please try again in a little while.",
	},
	LangHindi: {
		tplGreeting:             "नमस्ते! मैं किसान साथी हूँ, आपका खेती सहायक। आप मुझसे मंडी भाव, मौसम, फसल की सेहत या खेती की सलाह के बारे में पूछ सकते हैं।",
		tplWhichCrop:            "मैं समझता हूँ कि आप अपनी उपज बेचना चाहते हैं। कृपया फसल का नाम बताएं (जैसे आलू या टमाटर) ताकि मैं सबसे अच्छा मंडी भाव खोज सकूं।",
		tplSellNow:              "{crop} के लिए अभी सबसे अच्छी मंडी {market} है, भाव ₹{price}/kg। कीमतें गिर रही हैं ({change}%), इसलिए आज बेचना बेहतर रहेगा।",
		tplSellWait:             "{crop} के लिए अभी सबसे अच्छी मंडी {market} है, भाव ₹{price}/kg। कीमतें स्थिर या बढ़ रही हैं ({change}%), इसलिए 2-3 दिन रुकने पर बेहतर भाव मिल सकता है।",
		tplCultivateFavorable:   "अभी का मौसम {crop} के लिए अनुकूल है। लगभग {temp}°C तापमान अच्छी बढ़वार के लिए ठीक है। मिट्टी अच्छी तरह तैयार करें और स्थानीय बुवाई कैलेंडर का पालन करें।",
		tplCultivateChallenging: "अभी तापमान लगभग {temp}°C है, जो {crop} के लिए कठिन हो सकता है। सुबह जल्दी सिंचाई करें, जहाँ संभव हो छाया दें और दोपहर में रोपाई न करें।",
		tplDiseaseRemedy:        "आपके विवरण से यह {disease} हो सकता है। आप क्या कर सकते हैं: {actions}। यह केवल प्रारंभिक अनुमान है, पक्की जांच नहीं। गंभीर फैलाव पर कृषि विस्तार अधिकारी से संपर्क करें।",
		tplWeatherNow:           "आपके क्षेत्र में अभी तापमान लगभग {temp}°C है और अगले एक-दो दिन मौसम सामान्य रहने की उम्मीद है। पूरे 7 दिन के पूर्वानुमान के लिए मौसम अनुभाग देखें।",
		tplWeatherUnavailable:   "अभी आपके क्षेत्र का मौसम नहीं पढ़ा जा सका। कृपया थोड़ी देर बाद फिर कोशिश करें।",
	},
	LangMarathi: {
		tplGreeting:           "नमस्कार! मी किसान साथी आहे, तुमचा शेती सहाय्यक. तुम्ही मला बाजारभाव, हवामान, पिकांचे आरोग्य किंवा शेती सल्ल्याबद्दल विचारू शकता.",
		tplWeatherUnavailable: "सध्या तुमच्या भागाचे हवामान वाचता आले नाही. कृपया थोड्या वेळाने पुन्हा प्रयत्न करा.",
	},
	LangTamil: {
		tplGreeting:           "வணக்கம்! நான் கிசான் சாதி, உங்கள் விவசாய உதவியாளர். சந்தை விலை, வானிலை, பயிர் நலம் பற்றி என்னிடம் கேளுங்கள்.",
		tplWeatherUnavailable: "இப்போது உங்கள் பகுதியின் வானிலையை படிக்க முடியவில்லை. சிறிது நேரம் கழித்து மீண்டும் முயற்சிக்கவும்.",
	},
	LangTelugu: {
		tplGreeting: "నమస్కారం! నేను కిసాన్ సాథీ, మీ వ్యవసాయ సహాయకుడిని. మార్కెట్ ధరలు, వాతావరణం, పంట ఆరోగ్యం గురించి నన్ను అడగండి.",
	},
	LangKannada: {
		tplGreeting: "ನಮಸ್ಕಾರ! ನಾನು ಕಿಸಾನ್ ಸಾಥಿ, ನಿಮ್ಮ ಕೃಷಿ ಸಹಾಯಕ. ಮಾರುಕಟ್ಟೆ ಬೆಲೆ, ಹವಾಮಾನ, ಬೆಳೆ ಆರೋಗ್ಯದ ಬಗ್ಗೆ ನನ್ನನ್ನು ಕೇಳಿ.",
	},
	LangMalayalam: {
		tplGreeting: "നമസ്കാരം! ഞാൻ കിസാൻ സാതി, നിങ്ങളുടെ കൃഷി സഹായി. വിപണി വില, കാലാവസ്ഥ, വിള ആരോഗ്യം എന്നിവയെക്കുറിച്ച് ചോദിക്കാം.",
	},
}

// genericCropNames stands in for {crop} when no specific crop was
// extracted from the message.
var genericCropNames = map[Language]string{
	LangEnglish: "seasonal crops",
	LangHindi:   "मौसमी फसलों",
	LangMarathi: "हंगामी पिकां",
}

func genericCropName(lang Language) string {
	if name, ok := genericCropNames[lang]; ok {
		return name
	}
	return genericCropNames[LangEnglish]
}

// renderTemplate looks up key for lang, falling back to English when the
// language table is missing or partial, and substitutes {name} placeholders.
func renderTemplate(lang Language, key templateKey, params map[string]string) string {
	tpl := templates[lang][key]
	if tpl == "" {
		tpl = templates[LangEnglish][key]
	}
	for name, value := range params {
		tpl = strings.ReplaceAll(tpl, "{"+name+"}", value)
	}
	return tpl
}
