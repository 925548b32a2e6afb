package advisor

import (
	"math"
	"strconv"
	"strings"

	"github.com/mayanksahani2004/kisan-saathi-ai/refdata"
	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

// defaultTempC stands in for the current temperature whenever no weather
// snapshot is available. Cultivation advice must still work offline.
const defaultTempC = 25.0

// resolveSell ranks every mandi quote for the crop across all regions and
// recommends the highest price. Falling prices mean sell today; flat or
// rising prices mean holding 2-3 days. Equal top prices keep the first
// quote encountered in dataset order. Without a crop it asks for one.
func (a *Advisor) resolveSell(crop *refdata.Crop, lang Language) string {
	if crop == nil {
		return renderTemplate(lang, tplWhichCrop, nil)
	}
	var best *refdata.MarketQuote
	for _, region := range a.store.Regions() {
		for _, quote := range a.store.MarketQuotes(crop.ID, region.ID) {
			q := quote
			if best == nil || q.Price > best.Price {
				best = &q
			}
		}
	}
	if best == nil {
		return renderTemplate(lang, tplGreeting, nil)
	}
	params := map[string]string{
		"crop":   crop.Name(string(lang)),
		"market": best.Market,
		"price":  formatNumber(best.Price),
		"change": formatNumber(math.Abs(best.Change)),
	}
	if best.Change < 0 {
		return renderTemplate(lang, tplSellNow, params)
	}
	return renderTemplate(lang, tplSellWait, params)
}

// resolveCultivation conditions the advice on the current temperature:
// above 30°C is challenging, otherwise favorable. A nil snapshot falls
// back to defaultTempC, so the favorable branch is the offline default.
func (a *Advisor) resolveCultivation(crop *refdata.Crop, wx *types.WeatherSnapshot, lang Language) string {
	temp := wx.CurrentTempC(defaultTempC)
	name := genericCropName(lang)
	if crop != nil {
		name = crop.Name(string(lang))
	}
	params := map[string]string{
		"crop": name,
		"temp": formatNumber(math.Round(temp)),
	}
	if temp > 30 {
		return renderTemplate(lang, tplCultivateChallenging, params)
	}
	return renderTemplate(lang, tplCultivateFavorable, params)
}

// resolveDisease scans the catalog for a record whose keywords occur in the
// message and answers with its remedial steps. When nothing matches, the
// first catalog entry serves as a representative answer so the farmer
// always gets actionable guidance rather than a dead end.
func (a *Advisor) resolveDisease(text string, lang Language) string {
	diseases := a.store.Diseases()
	if len(diseases) == 0 {
		return renderTemplate(lang, tplGreeting, nil)
	}
	record := diseases[0]
	for _, d := range diseases {
		if d.Matches(text) {
			record = d
			break
		}
	}
	steps := make([]string, 0, len(record.Actions))
	for _, action := range record.Actions {
		steps = append(steps, action.Text)
	}
	return renderTemplate(lang, tplDiseaseRemedy, map[string]string{
		"disease": record.Name,
		"actions": strings.Join(steps, "; "),
	})
}

// resolveWeather reports the current temperature, or asks the farmer to
// retry when no snapshot is available. It never invents readings.
func (a *Advisor) resolveWeather(wx *types.WeatherSnapshot, lang Language) string {
	if wx == nil {
		return renderTemplate(lang, tplWeatherUnavailable, nil)
	}
	return renderTemplate(lang, tplWeatherNow, map[string]string{
		"temp": formatNumber(math.Round(wx.Current.Temperature2m)),
	})
}

// formatNumber renders a price, percentage, or temperature without
// trailing zeros (38 not 38.0, 2.1 as-is).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
