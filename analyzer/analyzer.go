// Package analyzer turns a crop photo into a structured health diagnosis.
// With a vision-capable model available it asks for a JSON verdict and
// validates it against a schema; otherwise it simulates a verdict from the
// disease catalog so the feature keeps working offline.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mayanksahani2004/kisan-saathi-ai/llm"
	"github.com/mayanksahani2004/kisan-saathi-ai/logger"
	"github.com/mayanksahani2004/kisan-saathi-ai/refdata"
	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

const visionPrompt = `You are a plant pathologist. Look at this crop photo and reply with ONLY a JSON object, no prose:
{"name": "<disease or Healthy Plant>", "healthStatus": "Healthy" or "Infected", "severity": "Low" or "Moderate" or "High", "confidence": <0-100>, "description": "<one sentence>", "actions": [{"icon": "<emoji>", "text": "<remedial step>"}]}`

// diagnosisSchema rejects malformed model verdicts before they reach the UI.
const diagnosisSchema = `{
	"type": "object",
	"required": ["name", "confidence"],
	"properties": {
		"name": {"type": "string", "minLength": 1},
		"healthStatus": {"type": "string", "enum": ["Healthy", "Infected"]},
		"severity": {"type": "string", "enum": ["Low", "Moderate", "High"]},
		"confidence": {"type": "number", "minimum": 0, "maximum": 100},
		"description": {"type": "string"},
		"actions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["text"],
				"properties": {
					"icon": {"type": "string"},
					"text": {"type": "string", "minLength": 1}
				}
			}
		}
	}
}`

// Analyzer produces crop-health diagnoses.
type Analyzer struct {
	vision   llm.VisionClient
	diseases []refdata.DiseaseRecord
	schema   *gojsonschema.Schema
	log      *logger.Logger
}

// New builds an Analyzer. vision may be nil for a purely offline analyzer.
func New(vision llm.VisionClient, diseases []refdata.DiseaseRecord) (*Analyzer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(diagnosisSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling diagnosis schema: %w", err)
	}
	return &Analyzer{
		vision:   vision,
		diseases: diseases,
		schema:   schema,
		log:      logger.GetLogger().WithComponent("analyzer"),
	}, nil
}

// Analyze diagnoses the crop in imageDataURL (a data: URL as captured by
// the UI). It never fails: a missing model, a bad completion, or offline
// mode all degrade to the catalog-based simulation.
func (a *Analyzer) Analyze(ctx context.Context, imageDataURL string, offline bool) types.Diagnosis {
	if offline || a.vision == nil {
		return a.simulate(imageDataURL)
	}
	diag, err := a.analyzeRemote(ctx, imageDataURL)
	if err != nil {
		a.log.Warnf("vision analysis failed, simulating from catalog: %v", err)
		return a.simulate(imageDataURL)
	}
	return diag
}

func (a *Analyzer) analyzeRemote(ctx context.Context, imageDataURL string) (types.Diagnosis, error) {
	out, err := a.vision.ChatVision(ctx, visionPrompt, imageDataURL)
	if err != nil {
		return types.Diagnosis{}, err
	}
	raw, ok := firstJSONObject(out)
	if !ok {
		return types.Diagnosis{}, fmt.Errorf("completion carries no JSON object")
	}
	result, err := a.schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return types.Diagnosis{}, fmt.Errorf("validating verdict: %w", err)
	}
	if !result.Valid() {
		return types.Diagnosis{}, fmt.Errorf("verdict rejected by schema: %v", result.Errors())
	}
	var diag types.Diagnosis
	if err := json.Unmarshal([]byte(raw), &diag); err != nil {
		return types.Diagnosis{}, fmt.Errorf("decoding verdict: %w", err)
	}
	applyDefaults(&diag)
	return diag, nil
}

// simulate picks a catalog entry keyed on the image bytes, so the same
// photo always yields the same verdict.
func (a *Analyzer) simulate(imageDataURL string) types.Diagnosis {
	if len(a.diseases) == 0 {
		return types.Diagnosis{
			Name:         "Analysis Unavailable",
			HealthStatus: "Error",
			Severity:     refdata.SeverityLow,
			Description:  "No reference data loaded; please try again after reinstalling.",
		}
	}
	h := fnv.New32a()
	h.Write([]byte(imageDataURL))
	record := a.diseases[int(h.Sum32())%len(a.diseases)]

	actions := make([]types.DiagnosisAction, 0, len(record.Actions))
	for _, act := range record.Actions {
		actions = append(actions, types.DiagnosisAction{Icon: act.Icon, Text: act.Text})
	}
	diag := types.Diagnosis{
		Name:        record.Name,
		Severity:    record.Severity,
		Confidence:  record.Confidence,
		Description: record.Description,
		Actions:     actions,
	}
	if record.ID == "healthy" {
		diag.HealthStatus = "Healthy"
	} else {
		diag.HealthStatus = "Infected"
	}
	return diag
}

// applyDefaults fills fields the schema leaves optional.
func applyDefaults(diag *types.Diagnosis) {
	if diag.HealthStatus == "" {
		if strings.Contains(strings.ToLower(diag.Name), "healthy") {
			diag.HealthStatus = "Healthy"
		} else {
			diag.HealthStatus = "Infected"
		}
	}
	if diag.Severity == "" {
		diag.Severity = refdata.SeverityModerate
	}
	if diag.Confidence < 0 {
		diag.Confidence = 0
	}
	if diag.Confidence > 100 {
		diag.Confidence = 100
	}
}

// firstJSONObject extracts the first balanced {...} from text, tolerating
// models that wrap JSON in prose or markdown fences.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
