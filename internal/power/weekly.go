package power

import "fmt"

// defaultWeekMultipliers assumes the window starts on a weekday: five full
// days, a half-traffic Saturday, and a near-empty Sunday.
var defaultWeekMultipliers = [daysPerWeek]float64{1.0, 1.0, 1.0, 1.0, 1.0, 0.5, 0.3}

const weekDateLayout = "2006-01-02 (Mon)"

// Weekly projects 7 days of yield from daily average wind speeds and
// optional crowd multipliers (1.0 is average traffic). Each day is shaped
// into hourly sequences, 12 hours at the day's speed and 12 at the night
// factor, with banded headcounts, then delegated to Daily. Date labels run
// from the injected clock's "today"; they are presentation only.
func (c *Calculator) Weekly(location string, windSpeeds []float64, multipliers []float64) (*WeeklyResult, error) {
	if len(windSpeeds) != daysPerWeek {
		return nil, fmt.Errorf("%w: want %d daily wind speeds, got %d", ErrInvalidInput, daysPerWeek, len(windSpeeds))
	}
	if multipliers == nil {
		multipliers = defaultWeekMultipliers[:]
	}
	if len(multipliers) != daysPerWeek {
		return nil, fmt.Errorf("%w: want %d daily multipliers, got %d", ErrInvalidInput, daysPerWeek, len(multipliers))
	}

	week := &WeeklyResult{
		Location: location,
		Days:     make([]DailyResult, 0, daysPerWeek),
	}

	today := c.now()
	for day := 0; day < daysPerWeek; day++ {
		daily, err := c.shapedDay(location, windSpeeds[day], multipliers[day])
		if err != nil {
			return nil, err
		}
		daily.Date = today.AddDate(0, 0, day).Format(weekDateLayout)
		week.Days = append(week.Days, *daily)

		week.WindWh += daily.WindWh
		week.PiezoWh += daily.PiezoWh
	}

	p, _ := c.table.Get(location) // shapedDay already validated the id
	week.TotalWh = week.WindWh + week.PiezoWh
	week.ConsumptionWh = streetlightWatts * float64(p.Streetlights) * streetlightHours * daysPerWeek
	week.BalanceWh = week.TotalWh - week.ConsumptionWh
	week.Sufficient = week.BalanceWh >= 0
	week.SufficiencyPct = sufficiencyPct(week.TotalWh, week.ConsumptionWh)
	return week, nil
}

// shapedDay turns one daily wind speed and crowd multiplier into a full
// daily projection using the day/night wind split and banded crowd shape.
func (c *Calculator) shapedDay(location string, windSpeed, multiplier float64) (*DailyResult, error) {
	p, ok := c.table.Get(location)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}
	return c.Daily(location, daySplitWind(windSpeed), bandedCrowd(p.Piezo.AvgHourlyPeople, multiplier))
}
