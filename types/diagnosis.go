package types

import "time"

// Diagnosis is the structured result of one crop-health analysis,
// whether it came from the vision model or the offline fallback set.
type Diagnosis struct {
	Name         string            `json:"name"`
	HealthStatus string            `json:"healthStatus"` // "Healthy" | "Infected" | "Error"
	Severity     string            `json:"severity"`     // "Low" | "Moderate" | "High"
	Confidence   int               `json:"confidence"`   // 0-100
	Description  string            `json:"description"`
	Actions      []DiagnosisAction `json:"actions"`
}

// DiagnosisAction is one remedial step with a display icon.
type DiagnosisAction struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// DetectionRecord is one stored crop-health analysis.
type DetectionRecord struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Result    Diagnosis `json:"result"`
}
