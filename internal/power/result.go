package power

// Result is the yield figure produced at every horizon: energy harvested,
// energy consumed by streetlights, and the balance between them. Aggregate
// horizons embed one Result per child window, forming a containment tree
// (hours under days, days under weeks, and so on). SufficiencyPct is +Inf
// when there is no consumption to cover.
type Result struct {
	Location       string
	Hours          float64
	WindSpeed      float64
	People         float64 // effective headcount used for the piezo figure
	WindWh         float64
	PiezoWh        float64
	TotalWh        float64
	ConsumptionWh  float64
	BalanceWh      float64
	Sufficient     bool
	SufficiencyPct float64
}

// DailyResult aggregates 24 hourly results. Date is presentation metadata
// set by the weekly and monthly projectors; it never feeds arithmetic.
type DailyResult struct {
	Location       string
	Date           string
	WindWh         float64
	PiezoWh        float64
	TotalWh        float64
	ConsumptionWh  float64
	BalanceWh      float64
	Sufficient     bool
	SufficiencyPct float64
	Hours          []Result // exactly 24, in hour order
}

// WeeklyResult aggregates 7 daily results.
type WeeklyResult struct {
	Location       string
	WindWh         float64
	PiezoWh        float64
	TotalWh        float64
	ConsumptionWh  float64
	BalanceWh      float64
	Sufficient     bool
	SufficiencyPct float64
	Days           []DailyResult // exactly 7, starting "today"
}

// MonthlyResult aggregates a 30-day window as four 7-day blocks plus two
// shaped leftover days.
type MonthlyResult struct {
	Location       string
	Month          string // presentation label set by the annual projector
	AvgWindSpeed   float64
	Days           int // always 30
	WindWh         float64
	PiezoWh        float64
	TotalWh        float64
	ConsumptionWh  float64
	BalanceWh      float64
	Sufficient     bool
	SufficiencyPct float64
	Weeks          []WeeklyResult // exactly 4
	ExtraDays      []DailyResult  // exactly 2, days 29 and 30 of the window
}

// AnnualResult aggregates 12 monthly results.
type AnnualResult struct {
	Location       string
	WindWh         float64
	PiezoWh        float64
	TotalWh        float64
	ConsumptionWh  float64
	BalanceWh      float64
	Sufficient     bool
	SufficiencyPct float64
	Months         []MonthlyResult // exactly 12, January first
}
