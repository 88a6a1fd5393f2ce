package repositories

import (
	"encoding/json"
	"fleet-route-service/internal/domain"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type VehicleSeed struct {
	ID           string `json:"id" yaml:"id"`
	LicensePlate string `json:"license_plate" yaml:"license_plate"`
	Make         string `json:"make" yaml:"make"`
	Model        string `json:"model" yaml:"model"`
	Status       string `json:"status" yaml:"status"`
}

type DriverSeed struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// FleetSeed is the fixture format read by dbtool.
type FleetSeed struct {
	Vehicles []VehicleSeed `json:"vehicles" yaml:"vehicles"`
	Drivers  []DriverSeed  `json:"drivers" yaml:"drivers"`
}

// LoadFleetSeed reads a .json, .yaml or .yml fixture and validates it.
func LoadFleetSeed(path string) (*FleetSeed, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: read %q: %w", path, err)
	}

	var seed FleetSeed
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(bytes, &seed); err != nil {
			return nil, fmt.Errorf("load seed: parse json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(bytes, &seed); err != nil {
			return nil, fmt.Errorf("load seed: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("load seed: unsupported file type %q", ext)
	}

	if err := seed.normalize(); err != nil {
		return nil, err
	}

	return &seed, nil
}

func (s *FleetSeed) normalize() error {
	seen := make(map[string]struct{}, len(s.Vehicles))
	for i := range s.Vehicles {
		v := &s.Vehicles[i]
		v.ID = strings.TrimSpace(v.ID)
		v.LicensePlate = strings.TrimSpace(v.LicensePlate)
		if v.ID == "" {
			return fmt.Errorf("load seed: vehicle at index %d: id cannot be empty", i+1)
		}
		if v.LicensePlate == "" {
			return fmt.Errorf("load seed: vehicle %q: license_plate cannot be empty", v.ID)
		}
		if _, dup := seen[v.ID]; dup {
			return fmt.Errorf("load seed: vehicle %q listed twice", v.ID)
		}
		seen[v.ID] = struct{}{}
		if v.Status == "" {
			v.Status = string(domain.VehicleStatusReady)
		}
	}

	seen = make(map[string]struct{}, len(s.Drivers))
	for i := range s.Drivers {
		d := &s.Drivers[i]
		d.ID = strings.TrimSpace(d.ID)
		d.Name = strings.TrimSpace(d.Name)
		if d.ID == "" {
			return fmt.Errorf("load seed: driver at index %d: id cannot be empty", i+1)
		}
		if d.Name == "" {
			return fmt.Errorf("load seed: driver %q: name cannot be empty", d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("load seed: driver %q listed twice", d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	return nil
}
