package power

import "math"

const (
	hoursPerDay   = 24
	daysPerWeek   = 7
	daysPerMonth  = 30
	monthsPerYear = 12
)

// nightWindFactor discounts wind speed over the second half of a day when a
// single daily speed is spread across 24 hours.
const nightWindFactor = 0.8

// Crowd banding for a shaped day: campus walkways carry full traffic through
// the daytime block, half through the evening, and a trickle overnight.
const (
	dayBandStart     = 8
	eveningBandStart = 16
	eveningFactor    = 0.5
	overnightFactor  = 0.1
)

// daySplitWind spreads one daily wind speed over 24 hours: the first 12 at
// the given speed, the rest at the night factor.
func daySplitWind(speed float64) []float64 {
	speeds := make([]float64, hoursPerDay)
	for h := range speeds {
		if h < hoursPerDay/2 {
			speeds[h] = speed
		} else {
			speeds[h] = speed * nightWindFactor
		}
	}
	return speeds
}

// bandedCrowd builds 24 hourly headcounts from a site's average traffic and
// a day-type multiplier, floored to whole people per hour.
func bandedCrowd(avgHourly, multiplier float64) []float64 {
	people := make([]float64, hoursPerDay)
	for h := range people {
		base := avgHourly * multiplier
		switch {
		case h >= dayBandStart && h < eveningBandStart:
			people[h] = math.Floor(base)
		case h >= eveningBandStart:
			people[h] = math.Floor(base * eveningFactor)
		default:
			people[h] = math.Floor(base * overnightFactor)
		}
	}
	return people
}

// DiurnalWind spreads a daily average wind speed over 24 hours using the
// campus diurnal pattern: calm overnight, average through the morning and
// evening, gusty in the afternoon.
func DiurnalWind(avg float64) []float64 {
	speeds := make([]float64, hoursPerDay)
	for h := range speeds {
		switch {
		case h < 6:
			speeds[h] = avg * 0.8
		case h < 12:
			speeds[h] = avg
		case h < 18:
			speeds[h] = avg * 1.2
		default:
			speeds[h] = avg
		}
	}
	return speeds
}

// CampusCrowd builds 24 hourly headcounts from an average hourly traffic
// figure using the commuter pattern observed on campus: near-empty
// overnight, peaks at the morning commute and lunch, tapering after dark.
// Each hour is floored to a whole headcount.
func CampusCrowd(avg float64) []float64 {
	people := make([]float64, hoursPerDay)
	for h := range people {
		people[h] = CrowdAt(avg, h)
	}
	return people
}

// CrowdAt returns the expected headcount for a single hour of day under the
// campus commuter pattern.
func CrowdAt(avg float64, hour int) float64 {
	var factor float64
	switch {
	case hour < 6: // overnight
		factor = 0.1
	case hour < 9: // morning commute
		factor = 1.5
	case hour < 12:
		factor = 1.2
	case hour < 14: // lunch
		factor = 1.8
	case hour < 18:
		factor = 1.2
	case hour < 21: // evening
		factor = 0.8
	default:
		factor = 0.3
	}
	return math.Floor(avg * factor)
}

// WeekWindCurve turns one average wind speed into 7 daily speeds with a
// gentle sinusoidal variation across the week.
func WeekWindCurve(avg float64) []float64 {
	speeds := make([]float64, daysPerWeek)
	for day := range speeds {
		variation := 0.1 * math.Sin(float64(day)*math.Pi/3.5)
		speeds[day] = avg * (1 + variation)
	}
	return speeds
}
