package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/mayanksahani2004/kisan-saathi-ai/refdata"
)

type stubVision struct {
	reply string
	err   error
}

func (s stubVision) ChatVision(ctx context.Context, prompt, imageDataURL string) (string, error) {
	return s.reply, s.err
}

func (s stubVision) Chat(ctx context.Context, system, user string) (string, error) {
	return s.reply, s.err
}

func testDiseases() []refdata.DiseaseRecord {
	return []refdata.DiseaseRecord{
		{
			ID: "healthy", Name: "Healthy Plant", Severity: refdata.SeverityLow,
			Confidence: 95, Description: "No visible disease",
			Actions: []refdata.Action{{Icon: "💧", Text: "Maintain regular watering"}},
		},
		{
			ID: "early_blight", Name: "Early Blight", Severity: refdata.SeverityModerate,
			Confidence: 82, Description: "Concentric dark spots on lower leaves",
			Actions: []refdata.Action{{Icon: "🧪", Text: "Spray a copper-based fungicide"}},
		},
	}
}

func TestOfflineSimulationIsDeterministic(t *testing.T) {
	a, err := New(nil, testDiseases())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	img := "data:image/jpeg;base64,AAAA"
	first := a.Analyze(context.Background(), img, true)
	second := a.Analyze(context.Background(), img, true)
	if first.Name != second.Name || first.Confidence != second.Confidence {
		t.Errorf("same image produced different verdicts: %+v vs %+v", first, second)
	}
	if first.HealthStatus != "Healthy" && first.HealthStatus != "Infected" {
		t.Errorf("unexpected health status %q", first.HealthStatus)
	}
	if first.Confidence < 0 || first.Confidence > 100 {
		t.Errorf("confidence %d out of range", first.Confidence)
	}
}

func TestRemoteVerdictAccepted(t *testing.T) {
	vision := stubVision{reply: "Here is my assessment:\n" +
		`{"name": "Late Blight", "severity": "High", "confidence": 91, "description": "Water-soaked lesions", "actions": [{"icon": "🔥", "text": "Destroy infected foliage"}]}`}
	a, err := New(vision, testDiseases())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	diag := a.Analyze(context.Background(), "data:image/jpeg;base64,BBBB", false)
	if diag.Name != "Late Blight" {
		t.Fatalf("name = %q, want the model verdict", diag.Name)
	}
	if diag.HealthStatus != "Infected" {
		t.Errorf("missing healthStatus should default to Infected, got %q", diag.HealthStatus)
	}
	if diag.Confidence != 91 || diag.Severity != "High" {
		t.Errorf("verdict fields lost: %+v", diag)
	}
}

func TestRemoteErrorFallsBackToSimulation(t *testing.T) {
	a, err := New(stubVision{err: errors.New("quota exceeded")}, testDiseases())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	diag := a.Analyze(context.Background(), "data:image/jpeg;base64,CCCC", false)
	if diag.Name != "Healthy Plant" && diag.Name != "Early Blight" {
		t.Errorf("fallback should come from the catalog, got %q", diag.Name)
	}
}

func TestRemoteInvalidVerdictRejected(t *testing.T) {
	cases := []struct {
		name  string
		reply string
	}{
		{"no json", "I cannot tell from this photo."},
		{"missing required field", `{"severity": "High"}`},
		{"confidence out of range", `{"name": "Rust", "confidence": 250}`},
		{"bad severity enum", `{"name": "Rust", "confidence": 50, "severity": "Catastrophic"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := New(stubVision{reply: tc.reply}, testDiseases())
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			diag := a.Analyze(context.Background(), "data:image/jpeg;base64,DDDD", false)
			// A rejected verdict must degrade to the catalog simulation.
			if diag.Name != "Healthy Plant" && diag.Name != "Early Blight" {
				t.Errorf("got %q, want a catalog fallback", diag.Name)
			}
		})
	}
}

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"nested", `{"a": {"b": 2}} trailing`, `{"a": {"b": 2}}`, true},
		{"brace inside string", `{"a": "}"}`, `{"a": "}"}`, true},
		{"unbalanced", `{"a": 1`, "", false},
		{"no object", "plain prose", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := firstJSONObject(tt.text)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("firstJSONObject(%q) = %q, %v; want %q, %v", tt.text, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
