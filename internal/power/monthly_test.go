package power

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
)

func TestMonthly_Deterministic(t *testing.T) {
	clock := fixedClock(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	a := New(nil, clock, rand.New(rand.NewSource(42)))
	b := New(nil, clock, rand.New(rand.NewSource(42)))

	monthA, err := a.Monthly("bldg5-60th", 4.0, nil, 1.0, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	monthB, err := b.Monthly("bldg5-60th", 4.0, nil, 1.0, 0.4)
	if err != nil {
		t.Fatal(err)
	}

	if monthA.WindWh != monthB.WindWh {
		t.Errorf("same seed WindWh differs: %v vs %v", monthA.WindWh, monthB.WindWh)
	}
	if monthA.PiezoWh != monthB.PiezoWh {
		t.Errorf("same seed PiezoWh differs: %v vs %v", monthA.PiezoWh, monthB.PiezoWh)
	}

	c := New(nil, clock, rand.New(rand.NewSource(7)))
	monthC, err := c.Monthly("bldg5-60th", 4.0, nil, 1.0, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	if monthC.WindWh == monthA.WindWh {
		t.Error("different seeds produced identical wind yield")
	}
}

// One Calculator serves every request goroutine, so projections that read
// the random source must be safe to run in parallel.
func TestMonthly_ConcurrentCallers(t *testing.T) {
	clock := fixedClock(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	c := New(nil, clock, rand.New(rand.NewSource(1)))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				month, err := c.Monthly("bldg5-60th", 4.0, nil, 1.0, 0.4)
				if err != nil {
					t.Errorf("Monthly() error = %v", err)
					return
				}
				if len(month.Weeks) != 4 || len(month.ExtraDays) != 2 {
					t.Errorf("got %d weeks and %d extra days, want 4 and 2", len(month.Weeks), len(month.ExtraDays))
					return
				}
				for _, v := range daySpeeds(month) {
					if v < 3.2-1e-9 || v > 4.8+1e-9 {
						t.Errorf("day speed = %v, want within [3.2, 4.8]", v)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

// daySpeeds collects the wind speed each simulated day was given, reading
// hour 0 of every daily child (the undiscounted half of the split).
func daySpeeds(m *MonthlyResult) []float64 {
	var speeds []float64
	for _, w := range m.Weeks {
		for _, d := range w.Days {
			speeds = append(speeds, d.Hours[0].WindSpeed)
		}
	}
	for _, d := range m.ExtraDays {
		speeds = append(speeds, d.Hours[0].WindSpeed)
	}
	return speeds
}

func TestMonthly_SpeedsWithinBand(t *testing.T) {
	clock := fixedClock(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		avg       float64
		tempRange *TempRange
		lo, hi    float64
	}{
		{
			name: "base band is plus or minus twenty percent",
			avg:  4.0,
			lo:   3.2,
			hi:   4.8,
		},
		{
			name:      "temperature swing widens the band",
			avg:       4.0,
			tempRange: &TempRange{Min: 0, Max: 15},
			lo:        2.6, // 35% band
			hi:        5.4,
		},
		{
			name:      "band is capped at thirty-five percent",
			avg:       4.0,
			tempRange: &TempRange{Min: -40, Max: 40},
			lo:        2.6,
			hi:        5.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, clock, rand.New(rand.NewSource(1)))
			month, err := c.Monthly("bldg5-60th", tt.avg, tt.tempRange, 1.0, 0.4)
			if err != nil {
				t.Fatal(err)
			}

			speeds := daySpeeds(month)
			if len(speeds) != 30 {
				t.Fatalf("got %d daily speeds, want 30", len(speeds))
			}
			for i, v := range speeds {
				if v < tt.lo-1e-9 || v > tt.hi+1e-9 {
					t.Errorf("day %d speed = %v, want within [%v, %v]", i, v, tt.lo, tt.hi)
				}
			}
		})
	}
}

func TestMonthly_WindFloor(t *testing.T) {
	c := New(nil, fixedClock(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)), rand.New(rand.NewSource(1)))

	// 0.3 m/s average varies at most to 0.36, so every day floors to 0.5,
	// still below the 1.5 cut-in.
	month, err := c.Monthly("bldg5-60th", 0.3, nil, 1.0, 0.4)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range daySpeeds(month) {
		if v != 0.5 {
			t.Errorf("day %d speed = %v, want floored to 0.5", i, v)
		}
	}
	if month.WindWh != 0 {
		t.Errorf("WindWh = %v, want 0 below cut-in", month.WindWh)
	}
	if month.PiezoWh <= 0 {
		t.Errorf("PiezoWh = %v, want positive", month.PiezoWh)
	}
}

func TestMonthly_TotalsEqualChildren(t *testing.T) {
	c := New(nil, fixedClock(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)), rand.New(rand.NewSource(3)))

	month, err := c.Monthly("inkyung-lake", 3.5, &TempRange{Min: 8, Max: 18}, 1.0, 0.4)
	if err != nil {
		t.Fatal(err)
	}

	if len(month.Weeks) != 4 {
		t.Fatalf("len(Weeks) = %d, want 4", len(month.Weeks))
	}
	if len(month.ExtraDays) != 2 {
		t.Fatalf("len(ExtraDays) = %d, want 2", len(month.ExtraDays))
	}

	var wind, piezo float64
	for _, w := range month.Weeks {
		wind += w.WindWh
		piezo += w.PiezoWh
	}
	for _, d := range month.ExtraDays {
		wind += d.WindWh
		piezo += d.PiezoWh
	}

	if month.WindWh != wind {
		t.Errorf("WindWh = %v, want sum of children = %v", month.WindWh, wind)
	}
	if month.PiezoWh != piezo {
		t.Errorf("PiezoWh = %v, want sum of children = %v", month.PiezoWh, piezo)
	}
	if month.TotalWh != month.WindWh+month.PiezoWh {
		t.Errorf("TotalWh = %v, want WindWh+PiezoWh", month.TotalWh)
	}
}

func TestMonthly_WeekendTraffic(t *testing.T) {
	// June 2, 2025 is a Monday, so days 5 and 6 of the window are the
	// first weekend.
	c := New(nil, fixedClock(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)), rand.New(rand.NewSource(1)))

	month, err := c.Monthly("bldg5-60th", 4.0, nil, 1.0, 0.4)
	if err != nil {
		t.Fatal(err)
	}

	week := month.Weeks[0]
	if !(week.Days[5].PiezoWh < week.Days[0].PiezoWh) {
		t.Errorf("Saturday piezo %v not below weekday %v", week.Days[5].PiezoWh, week.Days[0].PiezoWh)
	}
	if week.Days[5].PiezoWh != week.Days[6].PiezoWh {
		t.Errorf("Saturday piezo %v differs from Sunday %v under one multiplier", week.Days[5].PiezoWh, week.Days[6].PiezoWh)
	}
}

func TestMonthly_ExtraDaysShareShaping(t *testing.T) {
	// Days 29 and 30 of a window starting Monday June 2 are Monday June 30
	// and Tuesday July 1, both weekdays.
	c := New(nil, fixedClock(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)), rand.New(rand.NewSource(1)))

	month, err := c.Monthly("bldg5-60th", 4.0, nil, 1.0, 0.4)
	if err != nil {
		t.Fatal(err)
	}

	for i, d := range month.ExtraDays {
		if len(d.Hours) != 24 {
			t.Fatalf("ExtraDays[%d] has %d hours, want 24", i, len(d.Hours))
		}
		if !approxEqual(d.Hours[12].WindSpeed, d.Hours[0].WindSpeed*0.8, 1e-9) {
			t.Errorf("ExtraDays[%d] missing night split: hour 0 %v, hour 12 %v", i, d.Hours[0].WindSpeed, d.Hours[12].WindSpeed)
		}
		// Same crowd shaping as the weekly blocks for the same multiplier.
		if d.PiezoWh != month.Weeks[0].Days[0].PiezoWh {
			t.Errorf("ExtraDays[%d].PiezoWh = %v, want weekday value %v", i, d.PiezoWh, month.Weeks[0].Days[0].PiezoWh)
		}
	}

	if month.ExtraDays[0].Date != "2025-06-30 (Mon)" {
		t.Errorf("ExtraDays[0].Date = %q, want 2025-06-30 (Mon)", month.ExtraDays[0].Date)
	}
	if month.ExtraDays[1].Date != "2025-07-01 (Tue)" {
		t.Errorf("ExtraDays[1].Date = %q, want 2025-07-01 (Tue)", month.ExtraDays[1].Date)
	}
}

func TestMonthly_Consumption(t *testing.T) {
	c := New(nil, nil, nil)

	month, err := c.Monthly("bldg5-60th", 4.0, nil, 1.0, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	// 150 W x8 lights x12 h x30 days
	if month.ConsumptionWh != 432000 {
		t.Errorf("ConsumptionWh = %v, want 432000", month.ConsumptionWh)
	}
	if month.Days != 30 {
		t.Errorf("Days = %d, want 30", month.Days)
	}
}

func TestMonthly_UnknownLocation(t *testing.T) {
	c := New(nil, nil, nil)
	_, err := c.Monthly("rooftop", 4.0, nil, 1.0, 0.4)
	if !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("Monthly() error = %v, want ErrUnknownLocation", err)
	}
}
