package api

import (
	"math"

	"github.com/inhagreen/windstep/internal/power"
)

// Energy figures are rounded at the edge only: Wh to two decimals, kWh to
// three, percentages to one. The engine itself works at full precision.
func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// pct prepares a sufficiency percentage for JSON. An infinite ratio (site
// with no streetlights) has no JSON number, so it serializes as null.
func pct(v float64) *float64 {
	if math.IsInf(v, 1) {
		return nil
	}
	r := round1(v)
	return &r
}

// HourlyView is one hour of projected yield. Hour and FormattedHour are
// filled only on the daily route's top-level breakdown.
type HourlyView struct {
	Location                 string   `json:"location"`
	Hours                    float64  `json:"hours"`
	WindSpeed                float64  `json:"wind_speed"`
	PeopleCount              float64  `json:"people_count"`
	WindPowerWh              float64  `json:"wind_power_wh"`
	PiezoPowerWh             float64  `json:"piezo_power_wh"`
	TotalPowerWh             float64  `json:"total_power_wh"`
	StreetlightConsumptionWh float64  `json:"streetlight_consumption_wh"`
	PowerBalanceWh           float64  `json:"power_balance_wh"`
	IsSufficient             bool     `json:"is_sufficient"`
	SufficiencyPercentage    *float64 `json:"sufficiency_percentage"`
	Hour                     *int     `json:"hour,omitempty"`
	FormattedHour            string   `json:"formatted_hour,omitempty"`
}

type DailyView struct {
	Location                  string       `json:"location"`
	Date                      string       `json:"date,omitempty"`
	DailyWindPowerWh          float64      `json:"daily_wind_power_wh"`
	DailyPiezoPowerWh         float64      `json:"daily_piezo_power_wh"`
	DailyTotalPowerWh         float64      `json:"daily_total_power_wh"`
	DailyTotalPowerKWh        float64      `json:"daily_total_power_kwh"`
	StreetlightConsumptionWh  float64      `json:"streetlight_consumption_wh"`
	StreetlightConsumptionKWh float64      `json:"streetlight_consumption_kwh"`
	PowerBalanceWh            float64      `json:"power_balance_wh"`
	PowerBalanceKWh           float64      `json:"power_balance_kwh"`
	IsSufficient              bool         `json:"is_sufficient"`
	SufficiencyPercentage     *float64     `json:"sufficiency_percentage"`
	HourlyResults             []HourlyView `json:"hourly_results"`
}

type WeeklyView struct {
	Location                  string      `json:"location"`
	WeeklyWindPowerWh         float64     `json:"weekly_wind_power_wh"`
	WeeklyWindPowerKWh        float64     `json:"weekly_wind_power_kwh"`
	WeeklyPiezoPowerWh        float64     `json:"weekly_piezo_power_wh"`
	WeeklyPiezoPowerKWh       float64     `json:"weekly_piezo_power_kwh"`
	WeeklyTotalPowerWh        float64     `json:"weekly_total_power_wh"`
	WeeklyTotalPowerKWh       float64     `json:"weekly_total_power_kwh"`
	StreetlightConsumptionWh  float64     `json:"streetlight_consumption_wh"`
	StreetlightConsumptionKWh float64     `json:"streetlight_consumption_kwh"`
	PowerBalanceWh            float64     `json:"power_balance_wh"`
	PowerBalanceKWh           float64     `json:"power_balance_kwh"`
	IsSufficient              bool        `json:"is_sufficient"`
	SufficiencyPercentage     *float64    `json:"sufficiency_percentage"`
	DailyResults              []DailyView `json:"daily_results"`
}

type MonthlyView struct {
	Location                  string       `json:"location"`
	Month                     string       `json:"month,omitempty"`
	AvgWindSpeed              float64      `json:"avg_wind_speed"`
	Days                      int          `json:"days"`
	MonthlyWindPowerWh        float64      `json:"monthly_wind_power_wh"`
	MonthlyWindPowerKWh       float64      `json:"monthly_wind_power_kwh"`
	MonthlyPiezoPowerWh       float64      `json:"monthly_piezo_power_wh"`
	MonthlyPiezoPowerKWh      float64      `json:"monthly_piezo_power_kwh"`
	MonthlyTotalPowerWh       float64      `json:"monthly_total_power_wh"`
	MonthlyTotalPowerKWh      float64      `json:"monthly_total_power_kwh"`
	StreetlightConsumptionWh  float64      `json:"streetlight_consumption_wh"`
	StreetlightConsumptionKWh float64      `json:"streetlight_consumption_kwh"`
	PowerBalanceWh            float64      `json:"power_balance_wh"`
	PowerBalanceKWh           float64      `json:"power_balance_kwh"`
	IsSufficient              bool         `json:"is_sufficient"`
	SufficiencyPercentage     *float64     `json:"sufficiency_percentage"`
	WeeklyResults             []WeeklyView `json:"weekly_results"`
	ExtraDays                 []DailyView  `json:"extra_days"`
}

type AnnualView struct {
	Location                  string        `json:"location"`
	AnnualWindPowerWh         float64       `json:"annual_wind_power_wh"`
	AnnualWindPowerKWh        float64       `json:"annual_wind_power_kwh"`
	AnnualPiezoPowerWh        float64       `json:"annual_piezo_power_wh"`
	AnnualPiezoPowerKWh       float64       `json:"annual_piezo_power_kwh"`
	AnnualTotalPowerWh        float64       `json:"annual_total_power_wh"`
	AnnualTotalPowerKWh       float64       `json:"annual_total_power_kwh"`
	StreetlightConsumptionWh  float64       `json:"streetlight_consumption_wh"`
	StreetlightConsumptionKWh float64       `json:"streetlight_consumption_kwh"`
	PowerBalanceWh            float64       `json:"power_balance_wh"`
	PowerBalanceKWh           float64       `json:"power_balance_kwh"`
	IsSufficient              bool          `json:"is_sufficient"`
	SufficiencyPercentage     *float64      `json:"sufficiency_percentage"`
	MonthlyResults            []MonthlyView `json:"monthly_results"`
}

func hourlyView(r power.Result) HourlyView {
	return HourlyView{
		Location:                 r.Location,
		Hours:                    r.Hours,
		WindSpeed:                r.WindSpeed,
		PeopleCount:              r.People,
		WindPowerWh:              round2(r.WindWh),
		PiezoPowerWh:             round2(r.PiezoWh),
		TotalPowerWh:             round2(r.TotalWh),
		StreetlightConsumptionWh: round2(r.ConsumptionWh),
		PowerBalanceWh:           round2(r.BalanceWh),
		IsSufficient:             r.Sufficient,
		SufficiencyPercentage:    pct(r.SufficiencyPct),
	}
}

func dailyView(d *power.DailyResult) DailyView {
	hours := make([]HourlyView, 0, len(d.Hours))
	for _, h := range d.Hours {
		hours = append(hours, hourlyView(h))
	}
	return DailyView{
		Location:                  d.Location,
		Date:                      d.Date,
		DailyWindPowerWh:          round2(d.WindWh),
		DailyPiezoPowerWh:         round2(d.PiezoWh),
		DailyTotalPowerWh:         round2(d.TotalWh),
		DailyTotalPowerKWh:        round3(d.TotalWh / 1000),
		StreetlightConsumptionWh:  round2(d.ConsumptionWh),
		StreetlightConsumptionKWh: round3(d.ConsumptionWh / 1000),
		PowerBalanceWh:            round2(d.BalanceWh),
		PowerBalanceKWh:           round3(d.BalanceWh / 1000),
		IsSufficient:              d.Sufficient,
		SufficiencyPercentage:     pct(d.SufficiencyPct),
		HourlyResults:             hours,
	}
}

func weeklyView(wk *power.WeeklyResult) WeeklyView {
	days := make([]DailyView, 0, len(wk.Days))
	for i := range wk.Days {
		days = append(days, dailyView(&wk.Days[i]))
	}
	return WeeklyView{
		Location:                  wk.Location,
		WeeklyWindPowerWh:         round2(wk.WindWh),
		WeeklyWindPowerKWh:        round3(wk.WindWh / 1000),
		WeeklyPiezoPowerWh:        round2(wk.PiezoWh),
		WeeklyPiezoPowerKWh:       round3(wk.PiezoWh / 1000),
		WeeklyTotalPowerWh:        round2(wk.TotalWh),
		WeeklyTotalPowerKWh:       round3(wk.TotalWh / 1000),
		StreetlightConsumptionWh:  round2(wk.ConsumptionWh),
		StreetlightConsumptionKWh: round3(wk.ConsumptionWh / 1000),
		PowerBalanceWh:            round2(wk.BalanceWh),
		PowerBalanceKWh:           round3(wk.BalanceWh / 1000),
		IsSufficient:              wk.Sufficient,
		SufficiencyPercentage:     pct(wk.SufficiencyPct),
		DailyResults:              days,
	}
}

func monthlyView(m *power.MonthlyResult) MonthlyView {
	weeks := make([]WeeklyView, 0, len(m.Weeks))
	for i := range m.Weeks {
		weeks = append(weeks, weeklyView(&m.Weeks[i]))
	}
	extra := make([]DailyView, 0, len(m.ExtraDays))
	for i := range m.ExtraDays {
		extra = append(extra, dailyView(&m.ExtraDays[i]))
	}
	return MonthlyView{
		Location:                  m.Location,
		Month:                     m.Month,
		AvgWindSpeed:              m.AvgWindSpeed,
		Days:                      m.Days,
		MonthlyWindPowerWh:        round2(m.WindWh),
		MonthlyWindPowerKWh:       round3(m.WindWh / 1000),
		MonthlyPiezoPowerWh:       round2(m.PiezoWh),
		MonthlyPiezoPowerKWh:      round3(m.PiezoWh / 1000),
		MonthlyTotalPowerWh:       round2(m.TotalWh),
		MonthlyTotalPowerKWh:      round3(m.TotalWh / 1000),
		StreetlightConsumptionWh:  round2(m.ConsumptionWh),
		StreetlightConsumptionKWh: round3(m.ConsumptionWh / 1000),
		PowerBalanceWh:            round2(m.BalanceWh),
		PowerBalanceKWh:           round3(m.BalanceWh / 1000),
		IsSufficient:              m.Sufficient,
		SufficiencyPercentage:     pct(m.SufficiencyPct),
		WeeklyResults:             weeks,
		ExtraDays:                 extra,
	}
}

func annualView(a *power.AnnualResult) AnnualView {
	months := make([]MonthlyView, 0, len(a.Months))
	for i := range a.Months {
		months = append(months, monthlyView(&a.Months[i]))
	}
	return AnnualView{
		Location:                  a.Location,
		AnnualWindPowerWh:         round2(a.WindWh),
		AnnualWindPowerKWh:        round3(a.WindWh / 1000),
		AnnualPiezoPowerWh:        round2(a.PiezoWh),
		AnnualPiezoPowerKWh:       round3(a.PiezoWh / 1000),
		AnnualTotalPowerWh:        round2(a.TotalWh),
		AnnualTotalPowerKWh:       round3(a.TotalWh / 1000),
		StreetlightConsumptionWh:  round2(a.ConsumptionWh),
		StreetlightConsumptionKWh: round3(a.ConsumptionWh / 1000),
		PowerBalanceWh:            round2(a.BalanceWh),
		PowerBalanceKWh:           round3(a.BalanceWh / 1000),
		IsSufficient:              a.Sufficient,
		SufficiencyPercentage:     pct(a.SufficiencyPct),
		MonthlyResults:            months,
	}
}
