package power

import (
	"fmt"
	"sort"
)

// WindTurbine describes the wind subsystem installed at a site.
type WindTurbine struct {
	Model      string
	RatedPower float64 // W, output clamp
	CutIn      float64 // m/s, no generation below this
	SweptArea  float64 // m^2
	Efficiency float64 // 0-1
	Count      int
}

// PiezoField describes the piezoelectric walkway installed at a site.
type PiezoField struct {
	Model           string
	PowerPerStep    float64 // W per footstep
	TileCount       int
	AvgHourlyPeople float64 // baseline foot traffic per hour
	StepsPerPerson  float64 // average steps on the walkway per person
}

// Profile is the static configuration for one supported campus site.
type Profile struct {
	ID           string
	Name         string
	Turbine      WindTurbine
	Piezo        PiezoField
	Streetlights int
}

// Table is an immutable set of site profiles keyed by id. Build one with
// NewTable; it is read-only afterwards and safe for concurrent use.
type Table struct {
	profiles map[string]Profile
	ids      []string
}

// NewTable validates the given profiles and returns a lookup table over them.
func NewTable(profiles []Profile) (*Table, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile table is empty")
	}

	t := &Table{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		if err := validateProfile(p); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.ID, err)
		}
		if _, dup := t.profiles[p.ID]; dup {
			return nil, fmt.Errorf("profile %q: duplicate id", p.ID)
		}
		t.profiles[p.ID] = p
		t.ids = append(t.ids, p.ID)
	}
	sort.Strings(t.ids)
	return t, nil
}

func validateProfile(p Profile) error {
	if p.ID == "" {
		return fmt.Errorf("missing id")
	}
	if p.Turbine.RatedPower <= 0 {
		return fmt.Errorf("rated power must be positive, got %v", p.Turbine.RatedPower)
	}
	if p.Turbine.CutIn < 0 {
		return fmt.Errorf("cut-in speed must be non-negative, got %v", p.Turbine.CutIn)
	}
	if p.Turbine.SweptArea <= 0 {
		return fmt.Errorf("swept area must be positive, got %v", p.Turbine.SweptArea)
	}
	if p.Turbine.Efficiency <= 0 || p.Turbine.Efficiency > 1 {
		return fmt.Errorf("turbine efficiency must be in (0,1], got %v", p.Turbine.Efficiency)
	}
	if p.Turbine.Count <= 0 {
		return fmt.Errorf("turbine count must be positive, got %d", p.Turbine.Count)
	}
	if p.Piezo.PowerPerStep <= 0 {
		return fmt.Errorf("power per step must be positive, got %v", p.Piezo.PowerPerStep)
	}
	if p.Piezo.TileCount <= 0 {
		return fmt.Errorf("tile count must be positive, got %d", p.Piezo.TileCount)
	}
	if p.Piezo.AvgHourlyPeople < 0 {
		return fmt.Errorf("average hourly people must be non-negative, got %v", p.Piezo.AvgHourlyPeople)
	}
	if p.Piezo.StepsPerPerson <= 0 {
		return fmt.Errorf("steps per person must be positive, got %v", p.Piezo.StepsPerPerson)
	}
	if p.Streetlights < 0 {
		return fmt.Errorf("streetlight count must be non-negative, got %d", p.Streetlights)
	}
	return nil
}

// Get returns the profile for a site id.
func (t *Table) Get(id string) (Profile, bool) {
	p, ok := t.profiles[id]
	return p, ok
}

// IDs returns all site ids in sorted order.
func (t *Table) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Len returns the number of sites in the table.
func (t *Table) Len() int {
	return len(t.ids)
}

// Default returns the table of installed campus sites: the walkway between
// building 5 and the 60th anniversary hall, the Inkyung lake front, and the
// Heidegger forest path.
func Default() *Table {
	t, err := NewTable([]Profile{
		{
			ID:   "bldg5-60th",
			Name: "5호관-60주년기념관 사이",
			Turbine: WindTurbine{
				Model:      "Lotus-V 1kW",
				RatedPower: 1000,
				CutIn:      1.5,
				SweptArea:  3.14,
				Efficiency: 0.35,
				Count:      2,
			},
			Piezo: PiezoField{
				Model:           "Pavegen",
				PowerPerStep:    5,
				TileCount:       275,
				AvgHourlyPeople: 754,
				StepsPerPerson:  4,
			},
			Streetlights: 8,
		},
		{
			ID:   "inkyung-lake",
			Name: "인경호 앞",
			Turbine: WindTurbine{
				Model:      "미니 풍력 터빈 600W",
				RatedPower: 600,
				CutIn:      1.2,
				SweptArea:  2.0,
				Efficiency: 0.30,
				Count:      3,
			},
			Piezo: PiezoField{
				Model:           "Pavegen",
				PowerPerStep:    5,
				TileCount:       200,
				AvgHourlyPeople: 562,
				StepsPerPerson:  4,
			},
			Streetlights: 9,
		},
		{
			ID:   "heidegger-forest",
			Name: "하이데거숲",
			Turbine: WindTurbine{
				Model:      "Lotus-V 3kW",
				RatedPower: 3000,
				CutIn:      1.5,
				SweptArea:  4.5,
				Efficiency: 0.40,
				Count:      1,
			},
			Piezo: PiezoField{
				Model:           "Pavegen",
				PowerPerStep:    5,
				TileCount:       230,
				AvgHourlyPeople: 616,
				StepsPerPerson:  4,
			},
			Streetlights: 14,
		},
	})
	if err != nil {
		panic(err) // static data, cannot fail
	}
	return t
}
