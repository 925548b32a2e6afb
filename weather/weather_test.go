package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/mayanksahani2004/kisan-saathi-ai/config"
	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

func TestFetchParsesForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("forecast_days"); got != "7" {
			t.Errorf("forecast_days = %q, want 7", got)
		}
		if got := r.URL.Query().Get("latitude"); got != "18.52" {
			t.Errorf("latitude = %q, want 18.52", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"current": {"temperature_2m": 31.4, "relative_humidity_2m": 58, "apparent_temperature": 33.1, "weather_code": 1, "wind_speed_10m": 9.7},
			"daily": {"time": ["2026-08-29", "2026-08-30"], "temperature_2m_max": [33, 34], "temperature_2m_min": [22, 23], "weather_code": [1, 2], "precipitation_probability_max": [10, 15], "precipitation_sum": [0, 0]}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	snap, err := client.Fetch(context.Background(), config.Location{Name: "Pune", Lat: 18.52, Lon: 73.86})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if snap.LocationName != "Pune" {
		t.Errorf("location = %q, want Pune", snap.LocationName)
	}
	if snap.Current.Temperature2m != 31.4 {
		t.Errorf("temperature = %v, want 31.4", snap.Current.Temperature2m)
	}
	if len(snap.Daily.Time) != 2 {
		t.Errorf("daily entries = %d, want 2", len(snap.Daily.Time))
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if _, err := client.Fetch(context.Background(), config.Location{Name: "Pune"}); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestServiceFallsBackToMock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := config.DefaultAppConfig()
	svc := NewService(NewClient(srv.URL), cfg)

	snap := svc.Snapshot(context.Background(), "pune")
	if snap == nil {
		t.Fatal("Snapshot must never return nil")
	}
	if snap.Current.Temperature2m != 28 || snap.Current.RelativeHumidity2m != 65 {
		t.Errorf("expected mock values (28°C, 65%%), got %+v", snap.Current)
	}
	if len(snap.Daily.Time) != forecastDays {
		t.Errorf("mock daily entries = %d, want %d", len(snap.Daily.Time), forecastDays)
	}
}

func TestServiceUnknownLocationUsesDefault(t *testing.T) {
	var gotLat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLat = r.URL.Query().Get("latitude")
		w.Write([]byte(`{"current": {"temperature_2m": 25}, "daily": {}}`))
	}))
	defer srv.Close()

	cfg := config.DefaultAppConfig()
	svc := NewService(NewClient(srv.URL), cfg)
	svc.Snapshot(context.Background(), "atlantis")

	want := cfg.Weather.Locations[cfg.Weather.DefaultLocation]
	if gotLat == "" {
		t.Fatal("no request reached the forecast API")
	}
	if wantLat := strconv.FormatFloat(want.Lat, 'f', -1, 64); gotLat != wantLat {
		t.Errorf("latitude = %q, want default location's %q", gotLat, wantLat)
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(0).Label; got != "Clear sky" {
		t.Errorf("code 0 = %q", got)
	}
	if got := Describe(999).Label; got != "Partly cloudy" {
		t.Errorf("unknown code should default to partly cloudy, got %q", got)
	}
}

func TestDeriveAlerts(t *testing.T) {
	if alerts := DeriveAlerts(nil); alerts != nil {
		t.Errorf("nil snapshot should yield no alerts, got %v", alerts)
	}

	calm := &types.WeatherSnapshot{
		Current: types.WeatherCurrent{Temperature2m: 26, WindSpeed10m: 8, WeatherCode: 1},
	}
	if alerts := DeriveAlerts(calm); len(alerts) != 0 {
		t.Errorf("calm conditions should yield no alerts, got %v", alerts)
	}

	rough := &types.WeatherSnapshot{
		Current: types.WeatherCurrent{Temperature2m: 38, WindSpeed10m: 35, WeatherCode: 63},
		Daily:   types.WeatherDaily{PrecipitationProbabilityMax: []float64{90, 20}},
	}
	alerts := DeriveAlerts(rough)
	if len(alerts) != 4 {
		t.Fatalf("expected heat, wind, rain, and upcoming-rain alerts, got %d: %v", len(alerts), alerts)
	}
}
