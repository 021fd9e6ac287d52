// Package citystore loads the Brazilian municipality table once at process
// start and serves it read-only thereafter, indexed for O(1) id lookup.
package citystore

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/alexscott64/regweather/internal/weathermodel"
)

// Store is an in-memory, read-only municipality table. The zero value is
// not usable; build one with Load.
type Store struct {
	byID      map[string]weathermodel.City
	byState   map[string][]weathermodel.City
	withCoord []weathermodel.City
}

type municipalityRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	State     string   `json:"state"`
	Region    string   `json:"region"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Load reads the municipality table from a JSON array of records and
// builds the id/state/coordinate indexes in one pass.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("citystore: open %s: %w", path, err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader is Load without a filesystem dependency, used by tests.
func LoadReader(r io.Reader) (*Store, error) {
	var records []municipalityRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("citystore: decode: %w", err)
	}

	s := &Store{
		byID:    make(map[string]weathermodel.City, len(records)),
		byState: make(map[string][]weathermodel.City),
	}
	for _, rec := range records {
		city := weathermodel.City{
			ID:     rec.ID,
			Name:   rec.Name,
			State:  rec.State,
			Region: rec.Region,
		}
		if rec.Latitude != nil && rec.Longitude != nil {
			city.Coordinate = &weathermodel.Coordinates{Latitude: *rec.Latitude, Longitude: *rec.Longitude}
		}
		s.byID[city.ID] = city
		s.byState[strings.ToUpper(city.State)] = append(s.byState[strings.ToUpper(city.State)], city)
		if city.HasCoordinates() {
			s.withCoord = append(s.withCoord, city)
		}
	}
	return s, nil
}

// GetByID returns the city with the given IBGE code, if loaded.
func (s *Store) GetByID(id string) (weathermodel.City, bool) {
	city, ok := s.byID[id]
	return city, ok
}

// GetByState returns every municipality in the given two-letter state code.
func (s *Store) GetByState(state string) []weathermodel.City {
	return s.byState[strings.ToUpper(state)]
}

// Count returns the total number of loaded municipalities.
func (s *Store) Count() int {
	return len(s.byID)
}

// Neighbor pairs a municipality with its great-circle distance from the
// query center.
type Neighbor struct {
	City     weathermodel.City
	Distance float64
}

// Neighbors returns every municipality with known coordinates within
// radiusKm of center (exclusive of center itself), sorted nearest-first.
func (s *Store) Neighbors(center weathermodel.City, radiusKm float64) []Neighbor {
	var out []Neighbor
	for _, city := range s.withCoord {
		if city.ID == center.ID {
			continue
		}
		d := center.Coordinate.DistanceKm(*city.Coordinate)
		if d <= radiusKm {
			out = append(out, Neighbor{City: city, Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}
