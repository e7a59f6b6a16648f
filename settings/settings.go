package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sip-plugins/overlays/consts"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	Stations []string `yaml:"stations" json:"stations"`
	Diurnal  Diurnal  `yaml:"diurnal" json:"diurnal"`
	Pressure Pressure `yaml:"pressure" json:"pressure"`
}

// Diurnal holds the location used for sunrise and sunset.
type Diurnal struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// Pressure configures where pressure readings come from. When URL is set the
// graph is fetched from another controller instead of the local log.
type Pressure struct {
	Port string `yaml:"port" json:"port"`
	URL  string `yaml:"url" json:"url"`
	MQTT MQTT   `yaml:"mqtt" json:"mqtt"`
}

type MQTT struct {
	Broker string `yaml:"broker" json:"broker"`
	Topic  string `yaml:"topic" json:"topic"`
}

// Defaults returns the settings used when no file exists. The longitude is a
// rough estimate from the local time zone offset.
func Defaults() Settings {
	_, offset := time.Now().Zone()
	return Settings{
		Stations: []string{"station 1", "station 2", "station 3", "station 4"},
		Diurnal: Diurnal{
			Lat: consts.DefaultLatitude,
			Lon: float64(offset) / 3600 * 15,
		},
		Pressure: Pressure{
			Port: "/dev/ttyUSB0",
		},
	}
}

// Store keeps the current settings and persists updates to a YAML file.
type Store struct {
	mu      sync.RWMutex
	path    string
	current Settings
}

// Load reads path, falling back to Defaults when the file does not exist.
func Load(path string) (*Store, error) {
	s := &Store{path: path, current: Defaults()}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to a copy of the settings and saves the result.
func (s *Store) Update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	next.Stations = append([]string(nil), s.current.Stations...)
	fn(&next)

	data, err := yaml.Marshal(next)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), consts.DirPermissions); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, consts.FilePermissions); err != nil {
		return fmt.Errorf("writing settings %s: %w", s.path, err)
	}
	s.current = next
	return nil
}
