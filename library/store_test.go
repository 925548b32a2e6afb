package library

import (
	"fmt"
	"testing"
	"time"

	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

func openTestStore(t *testing.T, chatLimit, detectionLimit int) *Store {
	t.Helper()
	store, err := Open(":memory:", chatLimit, detectionLimit)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func turn(i int) types.ConversationTurn {
	return types.ConversationTurn{
		ID:        fmt.Sprintf("turn-%03d", i),
		Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		Query:     fmt.Sprintf("question %d", i),
		Response:  fmt.Sprintf("answer %d", i),
		Language:  "en",
	}
}

func TestAppendAndReadTurns(t *testing.T) {
	store := openTestStore(t, 50, 15)

	for i := 0; i < 3; i++ {
		if err := store.AppendTurn(turn(i)); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}
	turns, err := store.RecentTurns(0)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want 3", len(turns))
	}
	if turns[0].ID != "turn-002" {
		t.Errorf("newest first: got %q", turns[0].ID)
	}
	if turns[0].Query != "question 2" || turns[0].Response != "answer 2" {
		t.Errorf("round trip mismatch: %+v", turns[0])
	}
}

func TestChatHistoryCap(t *testing.T) {
	store := openTestStore(t, 5, 15)

	for i := 0; i < 12; i++ {
		if err := store.AppendTurn(turn(i)); err != nil {
			t.Fatalf("AppendTurn: %v", err)
		}
	}
	turns, err := store.RecentTurns(0)
	if err != nil {
		t.Fatalf("RecentTurns: %v", err)
	}
	if len(turns) != 5 {
		t.Fatalf("got %d turns, want cap of 5", len(turns))
	}
	// The oldest rows are the ones evicted.
	if turns[len(turns)-1].ID != "turn-007" {
		t.Errorf("oldest surviving turn = %q, want turn-007", turns[len(turns)-1].ID)
	}
}

func TestDetectionHistoryRoundTripAndCap(t *testing.T) {
	store := openTestStore(t, 50, 3)

	for i := 0; i < 5; i++ {
		rec := types.DetectionRecord{
			ID:        fmt.Sprintf("det-%03d", i),
			Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
			Result: types.Diagnosis{
				Name:         "Leaf Curl Virus",
				HealthStatus: "Infected",
				Severity:     "High",
				Confidence:   88,
				Description:  "Curled, yellowing leaves",
				Actions:      []types.DiagnosisAction{{Icon: "✂️", Text: "Remove infected plants"}},
			},
		}
		if err := store.AppendDetection(rec); err != nil {
			t.Fatalf("AppendDetection: %v", err)
		}
	}
	records, err := store.RecentDetections(0)
	if err != nil {
		t.Fatalf("RecentDetections: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d detections, want cap of 3", len(records))
	}
	got := records[0]
	if got.ID != "det-004" {
		t.Errorf("newest first: got %q", got.ID)
	}
	if got.Result.Name != "Leaf Curl Virus" || got.Result.Confidence != 88 {
		t.Errorf("diagnosis did not round trip: %+v", got.Result)
	}
	if len(got.Result.Actions) != 1 || got.Result.Actions[0].Text != "Remove infected plants" {
		t.Errorf("actions did not round trip: %+v", got.Result.Actions)
	}
}

func TestOfflineModeDefaultsFalse(t *testing.T) {
	store := openTestStore(t, 50, 15)
	if store.OfflineMode() {
		t.Error("fresh store should not be offline")
	}
}

func TestOfflineModeRoundTrip(t *testing.T) {
	store := openTestStore(t, 50, 15)

	if err := store.SetOfflineMode(true); err != nil {
		t.Fatalf("SetOfflineMode(true): %v", err)
	}
	if !store.OfflineMode() {
		t.Error("offline mode should be on")
	}
	if err := store.SetOfflineMode(false); err != nil {
		t.Fatalf("SetOfflineMode(false): %v", err)
	}
	if store.OfflineMode() {
		t.Error("offline mode should be off")
	}
}
