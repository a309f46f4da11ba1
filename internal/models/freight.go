package models

import (
	"math"

	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

var freightDefaults = params.NewDefaultSet(
	params.String("origin", "Chicago"),
	params.String("destination", "Dallas"),
	params.String("mode", "truck"),
	params.Int("horizon_months", 6),
	params.Float("fuel_price_index", 108),
)

const (
	freightBaseIndex    = 100.0
	freightMonthlyTrend = 2.5
	freightFuelDrag     = 0.08
)

var fuelBands = bands{
	{floor: 115, label: "high"},
	{floor: 105, label: "medium"},
	{floor: math.Inf(-1), label: "low"},
}

// FreightForecasting projects a lane's volume index month by month.
type FreightForecasting struct{}

// FreightPoint is one month of the forecast.
type FreightPoint struct {
	Month       int64   `json:"month"`
	VolumeIndex float64 `json:"volume_index"`
}

// FreightOutput is the freight forecast result.
type FreightOutput struct {
	Header
	Origin         string         `json:"origin"`
	Destination    string         `json:"destination"`
	Mode           string         `json:"mode"`
	ForecastSeries []FreightPoint `json:"forecast_series"`
	RiskBand       string         `json:"risk_band"`
}

func (FreightForecasting) Info() Info {
	return Info{
		Name:        "freight-forecasting",
		Aliases:     []string{"freight"},
		Description: "Monthly freight volume index for a lane",
		Mode:        protocol.ModeSingleShot,
		Defaults:    freightDefaults,
	}
}

func (FreightForecasting) Compute(p params.Set) (Output, error) {
	horizon, err := horizonOf("horizon_months", p.Int("horizon_months"))
	if err != nil {
		return nil, err
	}
	fuelIndex := p.Float("fuel_price_index")
	drag := (fuelIndex - freightBaseIndex) * freightFuelDrag

	series := make([]FreightPoint, 0, horizon)
	for i := int64(0); i < horizon; i++ {
		trend := float64(i) * freightMonthlyTrend
		series = append(series, FreightPoint{
			Month:       i + 1,
			VolumeIndex: round(freightBaseIndex+trend-drag, 2),
		})
	}

	return FreightOutput{
		Header:         Header{Headline: "Freight forecast ready"},
		Origin:         p.String("origin"),
		Destination:    p.String("destination"),
		Mode:           p.String("mode"),
		ForecastSeries: series,
		RiskBand:       fuelBands.classify(fuelIndex),
	}, nil
}
