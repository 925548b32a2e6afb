// Package api is the HTTP facade between the web UI and the advisory
// pipeline.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mayanksahani2004/kisan-saathi-ai/advisor"
	"github.com/mayanksahani2004/kisan-saathi-ai/analyzer"
	"github.com/mayanksahani2004/kisan-saathi-ai/library"
	"github.com/mayanksahani2004/kisan-saathi-ai/logger"
	"github.com/mayanksahani2004/kisan-saathi-ai/refdata"
	"github.com/mayanksahani2004/kisan-saathi-ai/types"
	"github.com/mayanksahani2004/kisan-saathi-ai/weather"
)

// Server bundles every collaborator the HTTP handlers need.
type Server struct {
	advisor  *advisor.Advisor
	weather  *weather.Service
	analyzer *analyzer.Analyzer
	library  *library.Store
	refdata  *refdata.Store
	log      *logger.Logger
	port     int
	server   *http.Server
}

// NewServer wires the facade. Every collaborator is required.
func NewServer(port int, adv *advisor.Advisor, wx *weather.Service, an *analyzer.Analyzer, lib *library.Store, ref *refdata.Store) *Server {
	return &Server{
		advisor:  adv,
		weather:  wx,
		analyzer: an,
		library:  lib,
		refdata:  ref,
		log:      logger.GetLogger().WithComponent("api"),
		port:     port,
	}
}

// Handler builds the routed handler; exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/market", s.handleMarket)
	mux.HandleFunc("/api/weather", s.handleWeather)
	mux.HandleFunc("/api/diseases", s.handleDiseases)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/detections", s.handleDetections)
	mux.HandleFunc("/api/settings", s.handleSettings)
	mux.HandleFunc("/health", s.handleHealth)
	return s.corsMiddleware(mux)
}

// Start runs the listener in the background.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		s.log.Infof("api listening on :%d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("api server failed", err)
		}
	}()
	return nil
}

// Stop closes the listener.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// handleChat answers one assistant exchange.
//
// The body is parsed tolerantly: a ChatRequest JSON object, or any plain
// text which is then taken as the message. The X-Offline header forces the
// local pipeline for this request.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	raw, _ := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	r.Body.Close()

	// Only a body that is not valid JSON is taken as plain text; a
	// well-formed ChatRequest with an empty message stays empty and is
	// rejected below.
	var req types.ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		req = types.ChatRequest{Message: strings.TrimSpace(string(raw))}
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		http.Error(w, "empty message", http.StatusBadRequest)
		return
	}
	offline := s.offline(r) || req.Offline

	var snapshot *types.WeatherSnapshot
	if !offline {
		snapshot = s.weather.Snapshot(r.Context(), r.URL.Query().Get("location"))
	}

	var resp types.ChatResponse
	if offline {
		resp = s.advisor.RespondLocal(r.Context(), req.Message, snapshot, advisor.Language(req.Language))
	} else {
		resp = s.advisor.Respond(r.Context(), req.Message, snapshot, advisor.Language(req.Language))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleMarket lists crops and regions, or the quotes for one pair.
func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	cropID := r.URL.Query().Get("crop")
	regionID := r.URL.Query().Get("region")
	if cropID == "" || regionID == "" {
		s.writeJSON(w, http.StatusOK, map[string]any{
			"crops":   s.refdata.Crops(),
			"regions": s.refdata.Regions(),
		})
		return
	}
	if _, ok := s.refdata.CropByID(cropID); !ok {
		http.Error(w, "unknown crop", http.StatusNotFound)
		return
	}
	quotes := s.refdata.MarketQuotes(cropID, regionID)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"crop":   cropID,
		"region": regionID,
		"quotes": quotes,
	})
}

// handleWeather returns the snapshot, rendered condition, and alerts for a
// location.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap := s.weather.Snapshot(r.Context(), r.URL.Query().Get("location"))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"snapshot":  snap,
		"condition": weather.Describe(snap.Current.WeatherCode),
		"alerts":    weather.DeriveAlerts(snap),
	})
}

func (s *Server) handleDiseases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, s.refdata.Diseases())
}

// handleAnalyze diagnoses a crop photo and records the detection.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	raw, _ := io.ReadAll(io.LimitReader(r.Body, 8<<20))
	r.Body.Close()

	var req struct {
		Image string `json:"image"`
	}
	if err := json.Unmarshal(raw, &req); err != nil || req.Image == "" {
		req.Image = strings.TrimSpace(string(raw))
	}
	if req.Image == "" {
		http.Error(w, "empty image", http.StatusBadRequest)
		return
	}

	diag := s.analyzer.Analyze(r.Context(), req.Image, s.offline(r))
	record := types.DetectionRecord{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Result:    diag,
	}
	if err := s.library.AppendDetection(record); err != nil {
		s.log.Error("failed to record detection", err)
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	turns, err := s.library.RecentTurns(0)
	if err != nil {
		http.Error(w, "reading history failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleDetections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	records, err := s.library.RecentDetections(0)
	if err != nil {
		http.Error(w, "reading detections failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, records)
}

// handleSettings reads (GET) or updates (POST) the persisted toggles.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, map[string]bool{"offline": s.library.OfflineMode()})
	case http.MethodPost:
		var req struct {
			Offline bool `json:"offline"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		if err := s.library.SetOfflineMode(req.Offline); err != nil {
			http.Error(w, "saving settings failed", http.StatusInternalServerError)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"offline": req.Offline})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// offline reports whether this request must stay on the local pipeline:
// the persisted setting, overridable per request via X-Offline.
func (s *Server) offline(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Offline"), "true") {
		return true
	}
	return s.library.OfflineMode()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response failed", err)
	}
}

// corsMiddleware keeps the browser UI, served from a different port during
// development, able to call the API.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Offline")
		w.Header().Set("Access-Control-Max-Age", "3600")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
