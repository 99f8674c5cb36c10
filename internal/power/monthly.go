package power

import (
	"fmt"
	"math"
	"time"
)

const (
	baseWindVariance = 0.20 // ±20% around the monthly average
	maxWindVariance  = 0.35
	minDailyWind     = 0.5 // m/s, never simulate dead calm
)

// TempRange is a month's expected low and high temperature in °C.
type TempRange struct {
	Min float64
	Max float64
}

// Monthly projects a 30-day window of yield from one average wind speed.
// Daily speeds are drawn uniformly within a variance band around the
// average; the band widens with the supplied temperature range, since a
// larger seasonal swing implies gustier weather. Crowd multipliers follow
// the real calendar from the injected clock's "today": weekdayMult on
// weekdays, weekendMult on Saturdays and Sundays. The window is computed as
// four 7-day blocks plus two leftover days, all on the same day shaping.
func (c *Calculator) Monthly(location string, avgWindSpeed float64, tempRange *TempRange, weekdayMult, weekendMult float64) (*MonthlyResult, error) {
	if _, ok := c.table.Get(location); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}

	variance := baseWindVariance
	if tempRange != nil {
		variance = math.Min(maxWindVariance, baseWindVariance+(tempRange.Max-tempRange.Min)/100)
	}

	today := c.now()
	speeds := make([]float64, daysPerMonth)
	mults := make([]float64, daysPerMonth)
	for day := 0; day < daysPerMonth; day++ {
		draw := c.randFloat()*2*variance - variance
		speeds[day] = math.Max(minDailyWind, avgWindSpeed*(1+draw))

		switch today.AddDate(0, 0, day).Weekday() {
		case time.Saturday, time.Sunday:
			mults[day] = weekendMult
		default:
			mults[day] = weekdayMult
		}
	}

	month := &MonthlyResult{
		Location:     location,
		AvgWindSpeed: avgWindSpeed,
		Days:         daysPerMonth,
		Weeks:        make([]WeeklyResult, 0, daysPerMonth/daysPerWeek),
		ExtraDays:    make([]DailyResult, 0, daysPerMonth%daysPerWeek),
	}

	for week := 0; week < daysPerMonth/daysPerWeek; week++ {
		lo, hi := week*daysPerWeek, (week+1)*daysPerWeek
		weekly, err := c.Weekly(location, speeds[lo:hi], mults[lo:hi])
		if err != nil {
			return nil, err
		}
		month.Weeks = append(month.Weeks, *weekly)

		month.WindWh += weekly.WindWh
		month.PiezoWh += weekly.PiezoWh
	}

	// Days 29 and 30 fall outside the weekly blocks; project them with the
	// same shaping so energy-per-day stays continuous across the window.
	for day := daysPerMonth - daysPerMonth%daysPerWeek; day < daysPerMonth; day++ {
		daily, err := c.shapedDay(location, speeds[day], mults[day])
		if err != nil {
			return nil, err
		}
		daily.Date = today.AddDate(0, 0, day).Format(weekDateLayout)
		month.ExtraDays = append(month.ExtraDays, *daily)

		month.WindWh += daily.WindWh
		month.PiezoWh += daily.PiezoWh
	}

	p, _ := c.table.Get(location)
	month.TotalWh = month.WindWh + month.PiezoWh
	month.ConsumptionWh = streetlightWatts * float64(p.Streetlights) * streetlightHours * daysPerMonth
	month.BalanceWh = month.TotalWh - month.ConsumptionWh
	month.Sufficient = month.BalanceWh >= 0
	month.SufficiencyPct = sufficiencyPct(month.TotalWh, month.ConsumptionWh)
	return month, nil
}
