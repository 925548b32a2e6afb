package types

import (
	"time"
)

// ChatRequest is the payload the UI sends for one assistant exchange.
type ChatRequest struct {
	// Free-text question, any supported language or script
	Message string `json:"message"`

	// Active UI language; used as a hint when the script alone is ambiguous
	Language string `json:"language,omitempty"`

	// Force the local rule-based pipeline for this request
	Offline bool `json:"offline,omitempty"`
}

// ChatResponse is one completed assistant exchange.
type ChatResponse struct {
	// Unique ID for the exchange
	ID string `json:"id"`

	// Final rendered answer text
	Reply string `json:"reply"`

	// Language the answer was rendered in
	Language string `json:"language"`

	// Classified intent of the question
	Intent string `json:"intent,omitempty"`

	// "model" when the hosted model answered, "local" otherwise
	Source string `json:"source"`

	// Timestamp of the response
	Timestamp time.Time `json:"timestamp"`
}

// ConversationTurn is one append-only history record.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Language  string    `json:"language"`
}

// AssistantLog is a pipeline activity event broadcast to connected UIs.
type AssistantLog struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
}
