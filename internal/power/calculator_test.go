package power

import (
	"errors"
	"math"
	"testing"
	"time"
)

// fixedClock returns a clock stuck at the given instant.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestWindEnergy(t *testing.T) {
	c := New(nil, nil, nil)

	tests := []struct {
		name      string
		location  string
		windSpeed float64
		hours     float64
		want      float64
		tol       float64
	}{
		{
			name:      "five metres per second for one hour",
			location:  "bldg5-60th",
			windSpeed: 5,
			hours:     1,
			// 0.5 * 1.225 * 3.14 * 125 * 0.35 = 84.14 W, x2 units, x0.70
			want: 117.8,
			tol:  0.1,
		},
		{
			name:      "below cut-in yields exactly zero",
			location:  "bldg5-60th",
			windSpeed: 0.5,
			hours:     1,
			want:      0,
		},
		{
			name:      "below cut-in regardless of duration",
			location:  "bldg5-60th",
			windSpeed: 1.4,
			hours:     100,
			want:      0,
		},
		{
			name:      "clamped at rated power",
			location:  "bldg5-60th",
			windSpeed: 30,
			hours:     1,
			// raw power far exceeds 1000 W, so 1000 x2 x0.70
			want: 1400,
			tol:  1e-9,
		},
		{
			name:      "scales linearly with hours",
			location:  "bldg5-60th",
			windSpeed: 5,
			hours:     3,
			want:      353.4,
			tol:       0.3,
		},
		{
			name:      "lake site with three small turbines",
			location:  "inkyung-lake",
			windSpeed: 3,
			hours:     1,
			// 0.5 * 1.225 * 2.0 * 27 * 0.30 = 9.92 W, x3 units, x0.70
			want: 20.84,
			tol:  0.01,
		},
		{
			name:      "zero hours yields zero",
			location:  "heidegger-forest",
			windSpeed: 5,
			hours:     0,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.WindEnergy(tt.location, tt.windSpeed, tt.hours)
			if err != nil {
				t.Fatalf("WindEnergy() error = %v", err)
			}
			if !approxEqual(got, tt.want, tt.tol) {
				t.Errorf("WindEnergy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindEnergy_UnknownLocation(t *testing.T) {
	c := New(nil, nil, nil)
	_, err := c.WindEnergy("rooftop", 5, 1)
	if !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("WindEnergy() error = %v, want ErrUnknownLocation", err)
	}
}

func TestWindEnergy_MonotonicUpToCap(t *testing.T) {
	c := New(nil, nil, nil)

	prev := 0.0
	for v := 0.0; v <= 40; v += 0.5 {
		got, err := c.WindEnergy("bldg5-60th", v, 1)
		if err != nil {
			t.Fatalf("WindEnergy(%v) error = %v", v, err)
		}
		if got < 0 {
			t.Errorf("WindEnergy(%v) = %v, want non-negative", v, got)
		}
		if got < prev {
			t.Errorf("WindEnergy(%v) = %v, less than at lower speed (%v)", v, got, prev)
		}
		prev = got
	}

	// Rated power is reached well below 20 m/s; beyond that the output is flat.
	atTwenty, err := c.WindEnergy("bldg5-60th", 20, 1)
	if err != nil {
		t.Fatal(err)
	}
	atForty, err := c.WindEnergy("bldg5-60th", 40, 1)
	if err != nil {
		t.Fatal(err)
	}
	if atTwenty != atForty {
		t.Errorf("saturated output differs: %v at 20 m/s vs %v at 40 m/s", atTwenty, atForty)
	}
}

func TestPiezoEnergy(t *testing.T) {
	c := New(nil, nil, nil)

	tests := []struct {
		name     string
		location string
		people   *float64
		hours    float64
		want     float64
		tol      float64
	}{
		{
			name:     "default headcount for one hour",
			location: "bldg5-60th",
			people:   nil,
			hours:    1,
			// 754 people x4 steps x5 W x0.70
			want: 10556,
			tol:  1e-6,
		},
		{
			name:     "default headcount scales with hours",
			location: "bldg5-60th",
			people:   nil,
			hours:    2,
			want:     21112,
			tol:      1e-6,
		},
		{
			name:     "zero people yields zero",
			location: "bldg5-60th",
			people:   floatPtr(0),
			hours:    1,
			want:     0,
		},
		{
			name:     "explicit count is a per-hour rate",
			location: "bldg5-60th",
			people:   floatPtr(100),
			hours:    2,
			// 100 people/h x2 h x4 steps x5 W x0.70
			want: 2800,
			tol:  1e-9,
		},
		{
			name:     "explicit count for a single hour",
			location: "inkyung-lake",
			people:   floatPtr(50),
			hours:    1,
			want:     700,
			tol:      1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.PiezoEnergy(tt.location, tt.people, tt.hours)
			if err != nil {
				t.Fatalf("PiezoEnergy() error = %v", err)
			}
			if !approxEqual(got, tt.want, tt.tol) {
				t.Errorf("PiezoEnergy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPiezoEnergy_LinearInPeople(t *testing.T) {
	c := New(nil, nil, nil)

	single, err := c.PiezoEnergy("heidegger-forest", floatPtr(100), 1)
	if err != nil {
		t.Fatal(err)
	}
	double, err := c.PiezoEnergy("heidegger-forest", floatPtr(200), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(double, 2*single, 1e-9) {
		t.Errorf("PiezoEnergy(200) = %v, want twice PiezoEnergy(100) = %v", double, 2*single)
	}
}

func TestPiezoEnergy_UnknownLocation(t *testing.T) {
	c := New(nil, nil, nil)
	_, err := c.PiezoEnergy("rooftop", nil, 1)
	if !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("PiezoEnergy() error = %v, want ErrUnknownLocation", err)
	}
}

func TestTotal(t *testing.T) {
	c := New(nil, nil, nil)

	t.Run("composes wind and piezo", func(t *testing.T) {
		r, err := c.Total("bldg5-60th", 5, nil, 1)
		if err != nil {
			t.Fatal(err)
		}
		if !approxEqual(r.TotalWh, r.WindWh+r.PiezoWh, 1e-9) {
			t.Errorf("TotalWh = %v, want WindWh+PiezoWh = %v", r.TotalWh, r.WindWh+r.PiezoWh)
		}
		if r.ConsumptionWh != 1200 {
			t.Errorf("ConsumptionWh = %v, want 1200", r.ConsumptionWh)
		}
		if !approxEqual(r.BalanceWh, r.TotalWh-1200, 1e-9) {
			t.Errorf("BalanceWh = %v, want %v", r.BalanceWh, r.TotalWh-1200)
		}
	})

	t.Run("streetlight hours are capped", func(t *testing.T) {
		r, err := c.Total("bldg5-60th", 5, nil, 24)
		if err != nil {
			t.Fatal(err)
		}
		// 150 W x8 lights x min(24, 12) hours
		if r.ConsumptionWh != 14400 {
			t.Errorf("ConsumptionWh = %v, want 14400", r.ConsumptionWh)
		}
	})

	t.Run("echoes the effective headcount", func(t *testing.T) {
		r, err := c.Total("bldg5-60th", 5, nil, 2)
		if err != nil {
			t.Fatal(err)
		}
		if r.People != 1508 {
			t.Errorf("People = %v, want 1508", r.People)
		}

		r, err = c.Total("bldg5-60th", 5, floatPtr(10), 1)
		if err != nil {
			t.Fatal(err)
		}
		if r.People != 10 {
			t.Errorf("People = %v, want 10", r.People)
		}
	})

	t.Run("sufficiency flag matches balance sign", func(t *testing.T) {
		for _, v := range []float64{0, 2, 5, 12, 30} {
			r, err := c.Total("inkyung-lake", v, nil, 1)
			if err != nil {
				t.Fatal(err)
			}
			if r.Sufficient != (r.BalanceWh >= 0) {
				t.Errorf("v=%v: Sufficient = %v, BalanceWh = %v", v, r.Sufficient, r.BalanceWh)
			}
		}
	})

	t.Run("unknown location", func(t *testing.T) {
		_, err := c.Total("rooftop", 5, nil, 1)
		if !errors.Is(err, ErrUnknownLocation) {
			t.Errorf("Total() error = %v, want ErrUnknownLocation", err)
		}
	})
}

func TestTotal_InfiniteSufficiency(t *testing.T) {
	table, err := NewTable([]Profile{{
		ID:      "unlit",
		Name:    "Unlit Path",
		Turbine: WindTurbine{Model: "T", RatedPower: 500, CutIn: 1, SweptArea: 1, Efficiency: 0.3, Count: 1},
		Piezo:   PiezoField{Model: "P", PowerPerStep: 5, TileCount: 10, AvgHourlyPeople: 100, StepsPerPerson: 4},
	}})
	if err != nil {
		t.Fatal(err)
	}

	c := New(table, nil, nil)
	r, err := c.Total("unlit", 3, nil, 1)
	if err != nil {
		t.Fatal(err)
	}
	if r.ConsumptionWh != 0 {
		t.Fatalf("ConsumptionWh = %v, want 0", r.ConsumptionWh)
	}
	if !math.IsInf(r.SufficiencyPct, 1) {
		t.Errorf("SufficiencyPct = %v, want +Inf", r.SufficiencyPct)
	}
	if !r.Sufficient {
		t.Error("Sufficient = false, want true when nothing draws power")
	}
}
