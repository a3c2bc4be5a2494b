package memory

import (
	"fmt"
	"os"

	"botf2/internal/app/ports"
	"botf2/internal/domain/diplomacy"

	"gopkg.in/yaml.v3"
)

// Seed describes a starting universe in YAML.
type Seed struct {
	StartTurn     int                `yaml:"start_turn"`
	Civilizations []SeedCivilization `yaml:"civilizations"`
	Colonies      []SeedColony       `yaml:"colonies"`
	Fleets        []SeedFleet        `yaml:"fleets"`
	Claims        []SeedClaim        `yaml:"claims"`
}

type SeedCivilization struct {
	ID       int    `yaml:"id"`
	Name     string `yaml:"name"`
	IsEmpire bool   `yaml:"is_empire"`
	Credits  int64  `yaml:"credits"`
}

type SeedColony struct {
	ID    int             `yaml:"id"`
	Name  string          `yaml:"name"`
	Owner int             `yaml:"owner"`
	At    diplomacy.Point `yaml:"at"`
}

type SeedFleet struct {
	ID    int               `yaml:"id"`
	Owner int               `yaml:"owner"`
	At    diplomacy.Point   `yaml:"at"`
	Route []diplomacy.Point `yaml:"route"`
}

type SeedClaim struct {
	Owner int             `yaml:"owner"`
	At    diplomacy.Point `yaml:"at"`
}

func LoadSeed(path string) (Seed, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return ParseSeed(b)
}

func ParseSeed(b []byte) (Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return s, nil
}

// Build creates a Universe populated from the seed.
func (s Seed) Build() *Universe {
	u := NewUniverse(s.StartTurn)
	for _, c := range s.Civilizations {
		u.AddCivilization(ports.Civilization{ID: diplomacy.CivID(c.ID), Name: c.Name, IsEmpire: c.IsEmpire}, c.Credits)
	}
	for _, c := range s.Colonies {
		u.AddColony(ports.Colony{ID: diplomacy.ColonyID(c.ID), Name: c.Name, Owner: diplomacy.CivID(c.Owner), Location: c.At})
	}
	for _, f := range s.Fleets {
		u.AddFleet(ports.Fleet{ID: diplomacy.FleetID(f.ID), Owner: diplomacy.CivID(f.Owner), Location: f.At, Route: f.Route})
	}
	for _, c := range s.Claims {
		u.Claim(c.At, diplomacy.CivID(c.Owner))
	}
	return u
}
