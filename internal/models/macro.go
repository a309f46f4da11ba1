package models

import (
	"fmt"

	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

var macroDefaults = params.NewDefaultSet(
	params.Float("baseline_gdp", 2.1),
	params.Float("baseline_inflation", 3.2),
	params.Float("policy_rate", 4.75),
	params.String("shock", "energy_spike"),
)

// shockAdjustment shifts GDP growth, inflation and unemployment, in
// percentage points.
type shockAdjustment struct {
	gdp          float64
	inflation    float64
	unemployment float64
}

var shockAdjustments = map[string]shockAdjustment{
	"energy_spike":         {gdp: -0.4, inflation: 0.6, unemployment: 0.2},
	"demand_surge":         {gdp: 0.5, inflation: 0.2, unemployment: -0.1},
	"financial_tightening": {gdp: -0.6, inflation: -0.1, unemployment: 0.3},
}

const (
	neutralPolicyRate    = 4.0
	baselineUnemployment = 4.2
	macroQuarters        = 4
)

// MacroeconomicForecasting projects a quarterly path under a named shock.
type MacroeconomicForecasting struct{}

// MacroQuarter is one quarter of the projected path.
type MacroQuarter struct {
	Quarter      string  `json:"quarter"`
	GDPGrowth    float64 `json:"gdp_growth"`
	Inflation    float64 `json:"inflation"`
	Unemployment float64 `json:"unemployment"`
}

// MacroOutput is the macro scenario result.
type MacroOutput struct {
	Header
	Shock    string         `json:"shock"`
	Scenario []MacroQuarter `json:"scenario"`
}

func (MacroeconomicForecasting) Info() Info {
	return Info{
		Name:        "macroeconomic-forecasting",
		Aliases:     []string{"macro"},
		Description: "Quarterly GDP, inflation and unemployment under a shock",
		Mode:        protocol.ModeSingleShot,
		Defaults:    macroDefaults,
	}
}

func (MacroeconomicForecasting) Compute(p params.Set) (Output, error) {
	gdpBase := p.Float("baseline_gdp")
	inflationBase := p.Float("baseline_inflation")
	rateGap := p.Float("policy_rate") - neutralPolicyRate
	shock := p.String("shock")

	// Unknown shocks apply no adjustment.
	adj := shockAdjustments[shock]

	var g finiteGuard
	gdpGrowth := g.check("gdp_growth", gdpBase+adj.gdp-rateGap*0.08)
	inflation := g.check("inflation", inflationBase+adj.inflation-rateGap*0.05)
	unemployment := g.check("unemployment", baselineUnemployment+adj.unemployment+rateGap*0.06)
	if g.err != nil {
		return nil, g.err
	}

	scenario := make([]MacroQuarter, 0, macroQuarters)
	for q := 1; q <= macroQuarters; q++ {
		scenario = append(scenario, MacroQuarter{
			Quarter:      fmt.Sprintf("Q%d", q),
			GDPGrowth:    round(gdpGrowth, 2),
			Inflation:    round(inflation, 2),
			Unemployment: round(unemployment, 2),
		})
	}

	return MacroOutput{
		Header:   Header{Headline: "Macro scenario generated"},
		Shock:    shock,
		Scenario: scenario,
	}, nil
}
