package weather

import (
	"context"
	"time"

	"github.com/mayanksahani2004/kisan-saathi-ai/config"
	"github.com/mayanksahani2004/kisan-saathi-ai/logger"
	"github.com/mayanksahani2004/kisan-saathi-ai/types"
)

// Service resolves weather snapshots for the app's named locations,
// falling back to Mock when the live API is unreachable.
type Service struct {
	client    *Client
	locations map[string]config.Location
	defaultID string
	log       *logger.Logger
}

// NewService wires a Service over the configured locations.
func NewService(client *Client, cfg *config.AppConfig) *Service {
	return &Service{
		client:    client,
		locations: cfg.Weather.Locations,
		defaultID: cfg.Weather.DefaultLocation,
		log:       logger.GetLogger().WithComponent("weather"),
	}
}

// Locations returns the selectable location map.
func (s *Service) Locations() map[string]config.Location {
	return s.locations
}

// Snapshot fetches the forecast for a location ID, defaulting when the ID
// is empty or unknown. It never returns nil: a fetch failure yields the
// mock snapshot so callers always have data to render.
func (s *Service) Snapshot(ctx context.Context, locationID string) *types.WeatherSnapshot {
	loc, ok := s.locations[locationID]
	if !ok {
		loc, ok = s.locations[s.defaultID]
		if !ok {
			return Mock("")
		}
	}
	snap, err := s.client.Fetch(ctx, loc)
	if err != nil {
		s.log.Warnf("live forecast unavailable for %s, serving mock data: %v", loc.Name, err)
		return Mock(loc.Name)
	}
	return snap
}

// Mock is the deterministic fallback snapshot: a mild, partly cloudy day.
// Values are fixed so offline behavior is reproducible.
func Mock(locationName string) *types.WeatherSnapshot {
	daily := types.WeatherDaily{}
	today := time.Now().UTC()
	for i := 0; i < forecastDays; i++ {
		daily.Time = append(daily.Time, today.AddDate(0, 0, i).Format("2006-01-02"))
		daily.Temperature2mMax = append(daily.Temperature2mMax, 32)
		daily.Temperature2mMin = append(daily.Temperature2mMin, 21)
		daily.WeatherCode = append(daily.WeatherCode, 2)
		daily.PrecipitationProbabilityMax = append(daily.PrecipitationProbabilityMax, 20)
		daily.PrecipitationSum = append(daily.PrecipitationSum, 0)
	}
	return &types.WeatherSnapshot{
		LocationName: locationName,
		Current: types.WeatherCurrent{
			Temperature2m:       28,
			RelativeHumidity2m:  65,
			ApparentTemperature: 30,
			WeatherCode:         2,
			WindSpeed10m:        12,
		},
		Daily: daily,
	}
}
