package model

// ChartStatus describes the state of the trend chart
type ChartStatus string

const (
	ChartIdle        ChartStatus = ChartStatus("idle")
	ChartLoading     ChartStatus = ChartStatus("loading")
	ChartReady       ChartStatus = ChartStatus("ready")
	ChartUnavailable ChartStatus = ChartStatus("unavailable") // provider has no data for the pair
	ChartFailed      ChartStatus = ChartStatus("failed")
)

// Series is the raw provider answer for a historical lookup:
// date -> code -> rate
type Series map[string]map[string]float64

// RatePoint is a single day of the trend
type RatePoint struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// Chart holds the trend for a pair
type Chart struct {
	Pair   Pair        `json:"pair"`
	Status ChartStatus `json:"status"`
	Points []RatePoint `json:"points"`
}

// Theme is the persisted UI theme
type Theme string

const (
	Light Theme = Theme("light")
	Dark  Theme = Theme("dark")
)

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}
