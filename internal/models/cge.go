package models

import (
	"fmt"
	"math"
	"time"

	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

var cgeDefaults = params.NewDefaultSet(
	params.Int("start_year", 2024),
	params.Int("horizon_years", 5),
)

var cgeIndustries = []string{
	"Agriculture",
	"Mining",
	"Manufacturing",
	"Construction",
	"Utilities",
	"Transport",
	"Services",
}

var cgeStages = []Stage{
	{Kind: protocol.KindStatus, Message: "Booting CGE model", Pause: 600 * time.Millisecond},
	{Kind: protocol.KindProgress, Message: "Loading baseline dataset", Pause: 700 * time.Millisecond},
	{Kind: protocol.KindProgress, Message: "Solving equilibrium conditions", Pause: 800 * time.Millisecond},
	{Kind: protocol.KindProgress, Message: "Running policy shock scenarios", Pause: 600 * time.Millisecond},
}

// CGE runs a computable general equilibrium policy simulation and streams
// its progress.
type CGE struct{}

// Metric is a labelled headline figure.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SectorShift is the headline impact on one sector.
type SectorShift struct {
	Name   string `json:"name"`
	Impact string `json:"impact"`
}

// PeriodValue is one point of an index series.
type PeriodValue struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// CGETimeseries holds the GDP and employment index paths.
type CGETimeseries struct {
	GDP        []PeriodValue `json:"gdp"`
	Employment []PeriodValue `json:"employment"`
}

// IndustryImpact is one cell of the industry by year table.
type IndustryImpact struct {
	Industry string `json:"industry"`
	Year     int64  `json:"year"`
	Impact   string `json:"impact"`
}

// CGEIndustryImpacts holds the industry by year tables.
type CGEIndustryImpacts struct {
	GDP        []IndustryImpact `json:"gdp"`
	Employment []IndustryImpact `json:"employment"`
}

// CGEOutput is the CGE simulation result.
type CGEOutput struct {
	Header
	Summary         string             `json:"summary"`
	Metrics         []Metric           `json:"metrics"`
	Sectors         []SectorShift      `json:"sectors"`
	Timeseries      CGETimeseries      `json:"timeseries"`
	IndustryImpacts CGEIndustryImpacts `json:"industry_impacts"`
}

func (CGE) Info() Info {
	return Info{
		Name:        "cge",
		Description: "Computable general equilibrium policy simulation (streams progress)",
		Mode:        protocol.ModeStreaming,
		Defaults:    cgeDefaults,
	}
}

// Stages returns the progress events emitted before the result.
func (CGE) Stages() []Stage {
	out := make([]Stage, len(cgeStages))
	copy(out, cgeStages)
	return out
}

func (CGE) Compute(p params.Set) (Output, error) {
	startYear := p.Int("start_year")
	horizon, err := horizonOf("horizon_years", p.Int("horizon_years"))
	if err != nil {
		return nil, err
	}
	if startYear > math.MaxInt64-(horizon-1) {
		return nil, fmt.Errorf("%w: start_year = %d with horizon_years = %d", ErrOutOfRange, startYear, horizon)
	}

	cells := len(cgeIndustries) * int(horizon)
	gdp := make([]IndustryImpact, 0, cells)
	employment := make([]IndustryImpact, 0, cells)
	for i, industry := range cgeIndustries {
		for j := int64(0); j < horizon; j++ {
			year := startYear + j
			gdp = append(gdp, IndustryImpact{
				Industry: industry,
				Year:     year,
				Impact:   signedPct(CGEGDPImpact(i, int(j))),
			})
			employment = append(employment, IndustryImpact{
				Industry: industry,
				Year:     year,
				Impact:   signedPct(CGEEmploymentImpact(i, int(j))),
			})
		}
	}

	return CGEOutput{
		Header:  Header{Headline: "CGE simulation complete"},
		Summary: "Short-run GDP impact of +0.6% with sectoral shifts in mining and services.",
		Metrics: []Metric{
			{Label: "GDP change", Value: "+0.6%"},
			{Label: "Employment", Value: "+12.4k"},
			{Label: "Inflation", Value: "+0.2 pp"},
			{Label: "Real wages", Value: "+0.3%"},
		},
		Sectors: []SectorShift{
			{Name: "Mining", Impact: "+1.8%"},
			{Name: "Manufacturing", Impact: "-0.2%"},
			{Name: "Services", Impact: "+0.4%"},
		},
		Timeseries: CGETimeseries{
			GDP: []PeriodValue{
				{Period: "Q1", Value: 100.0},
				{Period: "Q2", Value: 100.4},
				{Period: "Q3", Value: 100.6},
				{Period: "Q4", Value: 100.8},
			},
			Employment: []PeriodValue{
				{Period: "Q1", Value: 100.0},
				{Period: "Q2", Value: 100.2},
				{Period: "Q3", Value: 100.6},
				{Period: "Q4", Value: 100.9},
			},
		},
		IndustryImpacts: CGEIndustryImpacts{
			GDP:        gdp,
			Employment: employment,
		},
	}, nil
}

// CGEGDPImpact is the GDP impact, in percent, for the industry at index i
// in the year at offset j.
func CGEGDPImpact(i, j int) float64 {
	return round(0.3+float64(i)*0.15-float64(j)*0.05, 2)
}

// CGEEmploymentImpact is the employment impact, in percent, for the
// industry at index i in the year at offset j.
func CGEEmploymentImpact(i, j int) float64 {
	return round(0.2+float64(i)*0.1-float64(j)*0.04, 2)
}

func signedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}
