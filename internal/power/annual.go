package power

import (
	"fmt"
	"time"
)

const (
	semesterWeekdayMult = 1.0
	vacationWeekdayMult = 0.5
	semesterWeekendMult = 0.4
	vacationWeekendMult = 0.2
)

// vacationMonths marks January, February, July, and August, when campus
// traffic drops to half.
var vacationMonths = [monthsPerYear]bool{true, true, false, false, false, false, true, true, false, false, false, false}

// Annual projects a year of yield from 12 monthly average wind speeds and
// optional temperature ranges. Each month delegates to Monthly with crowd
// multipliers from the semester schedule: vacation months run at half
// weekday traffic and a fifth on weekends, semester months at full weekday
// traffic and 40% on weekends. Streetlight consumption covers 365 days even
// though the months are simulated as 30-day windows.
func (c *Calculator) Annual(location string, windSpeeds []float64, tempRanges []TempRange) (*AnnualResult, error) {
	if _, ok := c.table.Get(location); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLocation, location)
	}

	if len(windSpeeds) != monthsPerYear {
		return nil, fmt.Errorf("%w: want %d monthly wind speeds, got %d", ErrInvalidInput, monthsPerYear, len(windSpeeds))
	}
	if tempRanges != nil && len(tempRanges) != monthsPerYear {
		return nil, fmt.Errorf("%w: want %d monthly temperature ranges, got %d", ErrInvalidInput, monthsPerYear, len(tempRanges))
	}

	year := &AnnualResult{
		Location: location,
		Months:   make([]MonthlyResult, 0, monthsPerYear),
	}

	for m := 0; m < monthsPerYear; m++ {
		weekdayMult := semesterWeekdayMult
		weekendMult := semesterWeekendMult
		if vacationMonths[m] {
			weekdayMult = vacationWeekdayMult
			weekendMult = vacationWeekendMult
		}

		var tempRange *TempRange
		if tempRanges != nil {
			tempRange = &tempRanges[m]
		}

		monthly, err := c.Monthly(location, windSpeeds[m], tempRange, weekdayMult, weekendMult)
		if err != nil {
			return nil, err
		}
		monthly.Month = time.Month(m + 1).String()
		year.Months = append(year.Months, *monthly)

		year.WindWh += monthly.WindWh
		year.PiezoWh += monthly.PiezoWh
	}

	p, _ := c.table.Get(location)
	year.TotalWh = year.WindWh + year.PiezoWh
	year.ConsumptionWh = streetlightWatts * float64(p.Streetlights) * streetlightHours * 365
	year.BalanceWh = year.TotalWh - year.ConsumptionWh
	year.Sufficient = year.BalanceWh >= 0
	year.SufficiencyPct = sufficiencyPct(year.TotalWh, year.ConsumptionWh)
	return year, nil
}
