package power

import "fmt"

// Daily projects one day of yield from 24 hourly wind speeds and optional
// 24 hourly headcounts. A nil people slice uses the site's average hourly
// traffic for every hour. Each hour is computed independently with a
// one-hour duration; streetlight consumption for the day is computed once
// over the full operating-hours cap rather than summed hour by hour.
func (c *Calculator) Daily(location string, windSpeeds []float64, people []float64) (*DailyResult, error) {
	p, ok := c.table.Get(location)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}

	if len(windSpeeds) != hoursPerDay {
		return nil, fmt.Errorf("%w: want %d hourly wind speeds, got %d", ErrInvalidInput, hoursPerDay, len(windSpeeds))
	}
	if people != nil && len(people) != hoursPerDay {
		return nil, fmt.Errorf("%w: want %d hourly people counts, got %d", ErrInvalidInput, hoursPerDay, len(people))
	}

	day := &DailyResult{
		Location: location,
		Hours:    make([]Result, 0, hoursPerDay),
	}

	for hour := 0; hour < hoursPerDay; hour++ {
		var count *float64
		if people != nil {
			count = &people[hour]
		}

		r, err := c.Total(location, windSpeeds[hour], count, 1)
		if err != nil {
			return nil, err
		}
		day.Hours = append(day.Hours, r)

		day.WindWh += r.WindWh
		day.PiezoWh += r.PiezoWh
	}

	day.TotalWh = day.WindWh + day.PiezoWh
	day.ConsumptionWh = streetlightWatts * float64(p.Streetlights) * streetlightHours
	day.BalanceWh = day.TotalWh - day.ConsumptionWh
	day.Sufficient = day.BalanceWh >= 0
	day.SufficiencyPct = sufficiencyPct(day.TotalWh, day.ConsumptionWh)
	return day, nil
}
