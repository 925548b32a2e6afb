package refdata

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed dataset.yaml
var embedded embed.FS

type dataset struct {
	Crops    []Crop                              `yaml:"crops"`
	Regions  []Region                            `yaml:"regions"`
	Prices   map[string]map[string][]MarketQuote `yaml:"prices"`
	Diseases []DiseaseRecord                     `yaml:"diseases"`
}

// Store is the in-memory reference data store. Immutable after Load;
// safe for concurrent readers.
type Store struct {
	crops    []Crop
	regions  []Region
	prices   map[string]map[string][]MarketQuote
	diseases []DiseaseRecord

	cropByID   map[string]Crop
	regionByID map[string]Region
}

// Load builds a Store from the embedded dataset.
func Load() (*Store, error) {
	data, err := embedded.ReadFile("dataset.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded dataset: %w", err)
	}
	return loadBytes(data)
}

// LoadFile builds a Store from an external dataset file, for deployments
// that override the shipped tables.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	return loadBytes(data)
}

func loadBytes(data []byte) (*Store, error) {
	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	s := &Store{
		crops:      ds.Crops,
		regions:    ds.Regions,
		prices:     ds.Prices,
		diseases:   ds.Diseases,
		cropByID:   make(map[string]Crop, len(ds.Crops)),
		regionByID: make(map[string]Region, len(ds.Regions)),
	}

	for _, c := range ds.Crops {
		if _, dup := s.cropByID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate crop id: %s", c.ID)
		}
		s.cropByID[c.ID] = c
	}
	for _, r := range ds.Regions {
		if _, dup := s.regionByID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate region id: %s", r.ID)
		}
		s.regionByID[r.ID] = r
	}
	for _, d := range ds.Diseases {
		if err := d.validate(); err != nil {
			return nil, err
		}
	}
	for cropID, regions := range ds.Prices {
		for regionID, quotes := range regions {
			for _, q := range quotes {
				if q.Price <= 0 {
					return nil, fmt.Errorf("quote %s/%s/%s: price must be positive", cropID, regionID, q.Market)
				}
			}
		}
	}
	return s, nil
}

// Crops returns all reference crops in dataset order.
func (s *Store) Crops() []Crop {
	return s.crops
}

// Regions returns all reference regions in dataset order.
func (s *Store) Regions() []Region {
	return s.regions
}

// Diseases returns the disease catalog in dataset order.
func (s *Store) Diseases() []DiseaseRecord {
	return s.diseases
}

// MarketQuotes returns the quote list for a (crop, region) pair.
// Unknown ids return an empty slice, never an error.
func (s *Store) MarketQuotes(cropID, regionID string) []MarketQuote {
	regions, ok := s.prices[cropID]
	if !ok {
		return nil
	}
	return regions[regionID]
}

// CropByID looks up a crop; ok is false when the id is unknown.
func (s *Store) CropByID(id string) (Crop, bool) {
	c, ok := s.cropByID[id]
	return c, ok
}

// RegionByID looks up a region; ok is false when the id is unknown.
func (s *Store) RegionByID(id string) (Region, bool) {
	r, ok := s.regionByID[id]
	return r, ok
}
