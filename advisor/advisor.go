package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mayanksahani2004/kisan-saathi-ai/llm"
	"github.com/mayanksahani2004/kisan-saathi-ai/logger"
	"github.com/mayanksahani2004/kisan-saathi-ai/refdata"
	"github.com/mayanksahani2004/kisan-saathi-ai/resilience"
	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

// Settings exposes the runtime toggles the advisor reads per request.
type Settings interface {
	OfflineMode() bool
}

// History receives completed conversation turns. Implementations own
// retention; the advisor never reads back.
type History interface {
	AppendTurn(turn types.ConversationTurn) error
}

// Broadcaster fans activity lines out to connected observers.
type Broadcaster interface {
	BroadcastLog(entry types.AssistantLog)
}

const (
	defaultModelTimeout = 12 * time.Second
	breakerMaxFailures  = 3
	breakerResetTimeout = 30 * time.Second

	// marketSummaryLimit caps the market JSON embedded in the system
	// prompt so a large dataset cannot blow the model's context.
	marketSummaryLimit = 1000
)

// Options configures an Advisor. Every field is optional: a zero Options
// yields a purely local advisor with default logging.
type Options struct {
	Model       llm.Client
	Settings    Settings
	History     History
	Broadcaster Broadcaster
	Logger      *logger.Logger

	// ModelTimeout bounds a single hosted-model call.
	ModelTimeout time.Duration
}

// Advisor answers farmer messages. With a model configured and offline
// mode off it asks the hosted model first; any failure there degrades
// silently to the deterministic local pipeline. Respond never errors.
type Advisor struct {
	store    Store
	model    llm.Client
	settings Settings
	history  History
	hub      Broadcaster
	log      *logger.Logger
	breaker  *resilience.CircuitBreaker
	timeout  time.Duration
}

// New builds an Advisor over the given reference data.
func New(store Store, opts Options) *Advisor {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}
	timeout := opts.ModelTimeout
	if timeout <= 0 {
		timeout = defaultModelTimeout
	}
	return &Advisor{
		store:    store,
		model:    opts.Model,
		settings: opts.Settings,
		history:  opts.History,
		hub:      opts.Broadcaster,
		log:      log.WithComponent("advisor"),
		breaker:  resilience.NewCircuitBreaker(breakerMaxFailures, breakerResetTimeout),
		timeout:  timeout,
	}
}

// Respond produces the assistant's reply for one farmer message. uiLang is
// the active UI language and only disambiguates the Devanagari scripts; the
// detected message language drives the response. wx may be nil.
//
// Respond never returns an error: model failures, missing data, and even
// internal panics all degrade to a usable localized answer.
func (a *Advisor) Respond(ctx context.Context, text string, wx *types.WeatherSnapshot, uiLang Language) types.ChatResponse {
	return a.respond(ctx, text, wx, uiLang, false)
}

// RespondLocal answers with the deterministic pipeline only, never dialing
// the hosted model. Callers use it when a single request carries an offline
// override while the advisor itself stays online.
func (a *Advisor) RespondLocal(ctx context.Context, text string, wx *types.WeatherSnapshot, uiLang Language) types.ChatResponse {
	return a.respond(ctx, text, wx, uiLang, true)
}

func (a *Advisor) respond(ctx context.Context, text string, wx *types.WeatherSnapshot, uiLang Language, forceLocal bool) (resp types.ChatResponse) {
	lang := DetectLanguageHint(text, uiLang)
	defer func() {
		if r := recover(); r != nil {
			a.log.Errorf("recovered from panic while answering: %v", r)
			resp = a.finish(text, renderTemplate(lang, tplGreeting, nil), lang, IntentGeneral, "local")
		}
	}()

	if !forceLocal && a.remoteEnabled() {
		reply, err := a.remoteAnswer(ctx, text, wx, lang)
		if err == nil {
			a.broadcast("model answered in " + string(lang))
			return a.finish(text, reply, lang, ClassifyIntent(text), "model")
		}
		a.log.Warnf("model call failed, using local pipeline: %v", err)
		a.broadcast("model unavailable, local pipeline engaged")
	}

	reply, intent := a.localAnswer(text, wx, lang)
	return a.finish(text, reply, lang, intent, "local")
}

// localAnswer runs the deterministic pipeline: classify, extract, resolve.
func (a *Advisor) localAnswer(text string, wx *types.WeatherSnapshot, lang Language) (string, Intent) {
	intent := ClassifyIntent(text)
	var crop *refdata.Crop
	if c, ok := ExtractCrop(text, a.store); ok {
		crop = &c
	}
	switch intent {
	case IntentSellAdvice:
		return a.resolveSell(crop, lang), intent
	case IntentCultivationAdvice:
		return a.resolveCultivation(crop, wx, lang), intent
	case IntentDiseaseRemedy:
		return a.resolveDisease(text, lang), intent
	case IntentWeatherInfo:
		return a.resolveWeather(wx, lang), intent
	default:
		return renderTemplate(lang, tplGreeting, nil), IntentGeneral
	}
}

func (a *Advisor) remoteEnabled() bool {
	if a.model == nil {
		return false
	}
	if a.settings != nil && a.settings.OfflineMode() {
		return false
	}
	return true
}

// remoteAnswer asks the hosted model, guarded by the circuit breaker so a
// flapping provider stops being dialed for a while. An empty completion
// counts as a failure.
func (a *Advisor) remoteAnswer(ctx context.Context, text string, wx *types.WeatherSnapshot, lang Language) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	system := a.systemPrompt(wx, lang)
	var reply string
	err := a.breaker.Execute(func() error {
		out, chatErr := a.model.Chat(callCtx, system, text)
		if chatErr != nil {
			return chatErr
		}
		if strings.TrimSpace(out) == "" {
			return fmt.Errorf("model returned an empty completion")
		}
		reply = strings.TrimSpace(out)
		return nil
	})
	return reply, err
}

// systemPrompt grounds the model in today's data: the weather snapshot and
// a truncated market summary, plus the crops it may talk about.
func (a *Advisor) systemPrompt(wx *types.WeatherSnapshot, lang Language) string {
	weatherJSON := "not available"
	if wx != nil {
		if b, err := json.Marshal(wx); err == nil {
			weatherJSON = string(b)
		}
	}
	marketJSON := a.marketSummary()
	cropNames := make([]string, 0, len(a.store.Crops()))
	for _, c := range a.store.Crops() {
		cropNames = append(cropNames, c.Name("en"))
	}

	var b strings.Builder
	b.WriteString("You are Kisan Saathi, a warm and practical farming assistant for Indian farmers.\n")
	fmt.Fprintf(&b, "Always answer in the language with code %q.\n", lang)
	b.WriteString("Keep answers short, concrete, and actionable. Use the data below; never invent prices or weather readings.\n\n")
	fmt.Fprintf(&b, "Current weather: %s\n", weatherJSON)
	fmt.Fprintf(&b, "Market snapshot (₹/kg, truncated): %s\n", marketJSON)
	fmt.Fprintf(&b, "Crops you have data for: %s\n", strings.Join(cropNames, ", "))
	return b.String()
}

// marketSummary flattens every quote into JSON and truncates at the rune
// boundary nearest marketSummaryLimit.
func (a *Advisor) marketSummary() string {
	type quoteRow struct {
		Crop   string  `json:"crop"`
		Region string  `json:"region"`
		Market string  `json:"market"`
		Price  float64 `json:"price"`
		Change float64 `json:"change"`
	}
	var rows []quoteRow
	for _, crop := range a.store.Crops() {
		for _, region := range a.store.Regions() {
			for _, q := range a.store.MarketQuotes(crop.ID, region.ID) {
				rows = append(rows, quoteRow{
					Crop:   crop.ID,
					Region: region.ID,
					Market: q.Market,
					Price:  q.Price,
					Change: q.Change,
				})
			}
		}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "[]"
	}
	summary := string(b)
	if len(summary) > marketSummaryLimit {
		runes := []rune(summary)
		if len(runes) > marketSummaryLimit {
			runes = runes[:marketSummaryLimit]
		}
		summary = string(runes)
	}
	return summary
}

// finish stamps the response, records the turn, and broadcasts activity.
func (a *Advisor) finish(query, reply string, lang Language, intent Intent, source string) types.ChatResponse {
	resp := types.ChatResponse{
		ID:        uuid.NewString(),
		Reply:     reply,
		Language:  string(lang),
		Intent:    string(intent),
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
	if a.history != nil {
		turn := types.ConversationTurn{
			ID:        resp.ID,
			Timestamp: resp.Timestamp,
			Query:     query,
			Response:  reply,
			Language:  string(lang),
		}
		if err := a.history.AppendTurn(turn); err != nil {
			a.log.Error("failed to record conversation turn", err)
		}
	}
	return resp
}

func (a *Advisor) broadcast(msg string) {
	if a.hub == nil {
		return
	}
	a.hub.BroadcastLog(types.AssistantLog{
		Timestamp: time.Now().UTC(),
		Level:     "info",
		Source:    "advisor",
		Message:   msg,
	})
}
