package domain

import "encoding/json"

// Series names forwarded to dashboard clients. Everything else the provider
// reports is dropped.
const (
	SeriesBatteryPower = "BatteryPowerW"
	SeriesGridPower    = "GridPowerW"
)

// Series is one named time series. Data holds the provider's
// [[timestamp, value], ...] samples exactly as received.
type Series struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data" swaggertype:"array,object"`
}

type TelemetryResponse struct {
	Series []Series `json:"series"`
}

// IsDashboardSeries reports whether name is one of the forwarded series.
func IsDashboardSeries(name string) bool {
	return name == SeriesBatteryPower || name == SeriesGridPower
}
