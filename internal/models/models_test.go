package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

func resolve(t *testing.T, m Model, raw string) params.Set {
	t.Helper()
	set, err := params.Resolve(m.Info().Defaults, []byte(raw))
	require.NoError(t, err)
	return set
}

func compute(t *testing.T, m Model, raw string) Output {
	t.Helper()
	out, err := m.Compute(resolve(t, m, raw))
	require.NoError(t, err)
	return out
}

func TestPricing_ConcreteScenario(t *testing.T) {
	out := compute(t, PricingElasticity{}, `{"baseline_volume": 1000, "current_price": 10, "proposed_price": 11, "elasticity": -1.0}`)

	require.Equal(t, PricingOutput{
		Header:           Header{Headline: "Pricing scenario evaluated"},
		PriceChangePct:   0.1,
		VolumeChangePct:  -0.1,
		ProjectedVolume:  900,
		RevenueChangePct: -1.0,
		MarginChangePct:  -3.5,
	}, out)
}

func TestPricing_Defaults(t *testing.T) {
	out := compute(t, PricingElasticity{}, "")

	po := out.(PricingOutput)
	require.Equal(t, 44000.0, po.ProjectedVolume)
	require.Equal(t, -3.2, po.RevenueChangePct)
	require.Equal(t, -5.7, po.MarginChangePct)
	require.Equal(t, 0.1, po.PriceChangePct)
	require.Equal(t, -0.12, po.VolumeChangePct)
}

func TestPricing_ZeroPriceIsFatal(t *testing.T) {
	m := PricingElasticity{}
	_, err := m.Compute(resolve(t, m, `{"current_price": 0}`))
	require.ErrorIs(t, err, ErrNonFinite)
	require.Contains(t, err.Error(), "price_change_pct")

	_, err = m.Compute(resolve(t, m, `{"baseline_volume": 0}`))
	require.ErrorIs(t, err, ErrNonFinite)
	require.Contains(t, err.Error(), "revenue_change_pct")
}

func TestChurn_Defaults(t *testing.T) {
	out := compute(t, ChurnRisk{}, "{}")

	require.Equal(t, ChurnOutput{
		Header:           Header{Headline: "Churn risk scored"},
		ChurnProbability: 0.47,
		RiskBucket:       "medium",
	}, out)
}

func TestChurn_Clamping(t *testing.T) {
	high := compute(t, ChurnRisk{}, `{"support_tickets": 100, "usage_change_pct": -90}`).(ChurnOutput)
	require.Equal(t, 0.95, high.ChurnProbability)
	require.Equal(t, "high", high.RiskBucket)

	low := compute(t, ChurnRisk{}, `{"nps": 90, "account_tenure_months": 120, "support_tickets": 0, "usage_change_pct": 40}`).(ChurnOutput)
	require.Equal(t, 0.05, low.ChurnProbability)
	require.Equal(t, "low", low.RiskBucket)
}

func TestChurnBucket_Boundaries(t *testing.T) {
	tests := []struct {
		probability float64
		want        string
	}{
		{0.95, "high"},
		{0.65, "high"},
		{0.649999, "medium"},
		{0.35, "medium"},
		{0.349999, "low"},
		{0.05, "low"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.probability), func(t *testing.T) {
			require.Equal(t, tt.want, ChurnBucket(tt.probability))
		})
	}
}

func TestSupplyChain_Defaults(t *testing.T) {
	out := compute(t, SupplyChainRisk{}, "")

	require.Equal(t, SupplyChainOutput{
		Header:            Header{Headline: "Supply chain stress test complete"},
		ExpectedDelayDays: 11.7,
		RiskScore:         36.4,
	}, out)
}

func TestSupplyChain_ScoreCappedAt100(t *testing.T) {
	out := compute(t, SupplyChainRisk{}, `{"single_source_pct": 1, "disruption_probability": 1, "lead_time_days": 600, "supplier_count": 1}`).(SupplyChainOutput)
	require.Equal(t, 100.0, out.RiskScore)
}

func TestFreight_Defaults(t *testing.T) {
	out := compute(t, FreightForecasting{}, "").(FreightOutput)

	require.Equal(t, "Freight forecast ready", out.Title())
	require.Equal(t, "Chicago", out.Origin)
	require.Equal(t, "Dallas", out.Destination)
	require.Equal(t, "truck", out.Mode)
	require.Equal(t, "medium", out.RiskBand)
	require.Equal(t, []FreightPoint{
		{Month: 1, VolumeIndex: 99.36},
		{Month: 2, VolumeIndex: 101.86},
		{Month: 3, VolumeIndex: 104.36},
		{Month: 4, VolumeIndex: 106.86},
		{Month: 5, VolumeIndex: 109.36},
		{Month: 6, VolumeIndex: 111.86},
	}, out.ForecastSeries)
}

func TestFreight_HorizonFloor(t *testing.T) {
	for _, h := range []string{"0", "-4", "0.5"} {
		t.Run(h, func(t *testing.T) {
			out := compute(t, FreightForecasting{}, fmt.Sprintf(`{"horizon_months": %s, "fuel_price_index": 120}`, h)).(FreightOutput)
			require.Equal(t, []FreightPoint{{Month: 1, VolumeIndex: 98.4}}, out.ForecastSeries)
			require.Equal(t, "high", out.RiskBand)
		})
	}
}

func TestFreight_HorizonOutOfRange(t *testing.T) {
	m := FreightForecasting{}

	_, err := m.Compute(resolve(t, m, `{"horizon_months": 1e18}`))
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Contains(t, err.Error(), "horizon_months")

	_, err = m.Compute(resolve(t, m, fmt.Sprintf(`{"horizon_months": %d}`, maxHorizon+1)))
	require.ErrorIs(t, err, ErrOutOfRange)

	out := compute(t, m, fmt.Sprintf(`{"horizon_months": %d}`, maxHorizon)).(FreightOutput)
	require.Len(t, out.ForecastSeries, maxHorizon)
}

func TestFreight_FuelBands(t *testing.T) {
	require.Equal(t, "high", fuelBands.classify(115))
	require.Equal(t, "medium", fuelBands.classify(114.99))
	require.Equal(t, "medium", fuelBands.classify(105))
	require.Equal(t, "low", fuelBands.classify(104.99))
}

func TestMacro_Defaults(t *testing.T) {
	out := compute(t, MacroeconomicForecasting{}, "").(MacroOutput)

	require.Equal(t, "energy_spike", out.Shock)
	require.Len(t, out.Scenario, 4)
	for i, q := range out.Scenario {
		require.Equal(t, MacroQuarter{
			Quarter:      fmt.Sprintf("Q%d", i+1),
			GDPGrowth:    1.64,
			Inflation:    3.76,
			Unemployment: 4.45,
		}, q)
	}
}

func TestMacro_ShockTable(t *testing.T) {
	out := compute(t, MacroeconomicForecasting{}, `{"shock": "demand_surge", "policy_rate": 5.5}`).(MacroOutput)
	require.Equal(t, MacroQuarter{Quarter: "Q1", GDPGrowth: 2.48, Inflation: 3.33, Unemployment: 4.19}, out.Scenario[0])

	unknown := compute(t, MacroeconomicForecasting{}, `{"shock": "alien_invasion", "policy_rate": 4}`).(MacroOutput)
	require.Equal(t, "alien_invasion", unknown.Shock)
	require.Equal(t, MacroQuarter{Quarter: "Q1", GDPGrowth: 2.1, Inflation: 3.2, Unemployment: 4.2}, unknown.Scenario[0])
}

func TestMacro_OverflowIsFatal(t *testing.T) {
	m := MacroeconomicForecasting{}
	_, err := m.Compute(resolve(t, m, `{"baseline_gdp": 1.7e308, "policy_rate": -1.7e308}`))
	require.ErrorIs(t, err, ErrNonFinite)
	require.Contains(t, err.Error(), "gdp_growth")
}

func TestInputOutput_Defaults(t *testing.T) {
	out := compute(t, InputOutput{}, "")

	require.Equal(t, InputOutputOutput{
		Header:           Header{Headline: "Input-output run complete"},
		Region:           "US",
		Industry:         "Manufacturing",
		Year:             2026,
		GDPImpact:        135,
		EmploymentImpact: 850,
		SectorImpacts: []SectorImpact{
			{Sector: "Suppliers", Impact: 42},
			{Sector: "Logistics", Impact: 18},
			{Sector: "Services", Impact: 22},
		},
	}, out)
}

func TestInputOutput_EmploymentRoundsHalfToEven(t *testing.T) {
	out := compute(t, InputOutput{}, `{"shock_value": 55}`).(InputOutputOutput)
	require.Equal(t, int64(468), out.EmploymentImpact)
	require.Equal(t, 74.25, out.GDPImpact)

	out = compute(t, InputOutput{}, `{"shock_value": 1}`).(InputOutputOutput)
	require.Equal(t, int64(8), out.EmploymentImpact)
}

func TestInputOutput_OutOfRange(t *testing.T) {
	m := InputOutput{}
	_, err := m.Compute(resolve(t, m, `{"shock_value": 1e300}`))
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestCGE_CrossProduct(t *testing.T) {
	out := compute(t, CGE{}, "").(CGEOutput)

	gdp := out.IndustryImpacts.GDP
	employment := out.IndustryImpacts.Employment
	require.Len(t, gdp, 35)
	require.Len(t, employment, 35)

	require.Equal(t, IndustryImpact{Industry: "Agriculture", Year: 2024, Impact: "+0.30%"}, gdp[0])
	require.Equal(t, IndustryImpact{Industry: "Services", Year: 2028, Impact: "+1.00%"}, gdp[34])
	require.Equal(t, IndustryImpact{Industry: "Services", Year: 2028, Impact: "+0.64%"}, employment[34])

	seen := make(map[string]bool)
	for _, cell := range gdp {
		key := fmt.Sprintf("%s/%d", cell.Industry, cell.Year)
		require.False(t, seen[key], "duplicate cell %s", key)
		seen[key] = true
	}
}

func TestCGE_Horizon(t *testing.T) {
	out := compute(t, CGE{}, `{"start_year": 2030, "horizon_years": 0}`).(CGEOutput)
	require.Len(t, out.IndustryImpacts.GDP, len(cgeIndustries))
	for _, cell := range out.IndustryImpacts.GDP {
		require.Equal(t, int64(2030), cell.Year)
	}
}

func TestCGE_HorizonOutOfRange(t *testing.T) {
	m := CGE{}

	_, err := m.Compute(resolve(t, m, `{"horizon_years": 2000000000000000000}`))
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Contains(t, err.Error(), "horizon_years")

	_, err = m.Compute(resolve(t, m, `{"start_year": 9223372036854775807, "horizon_years": 2}`))
	require.ErrorIs(t, err, ErrOutOfRange)
	require.Contains(t, err.Error(), "start_year")

	out := compute(t, m, fmt.Sprintf(`{"horizon_years": %d}`, maxHorizon)).(CGEOutput)
	require.Len(t, out.IndustryImpacts.GDP, len(cgeIndustries)*maxHorizon)
}

func TestCGE_Stages(t *testing.T) {
	stages := CGE{}.Stages()
	require.Len(t, stages, 4)
	require.Equal(t, protocol.KindStatus, stages[0].Kind)
	for _, st := range stages[1:] {
		require.Equal(t, protocol.KindProgress, st.Kind)
	}

	stages[0].Message = "mutated"
	require.Equal(t, "Booting CGE model", CGE{}.Stages()[0].Message)
}

func TestRound(t *testing.T) {
	require.Equal(t, 2.67, round(2.675, 2))
	require.Equal(t, 0.12, round(0.125, 2))
	require.Equal(t, 11.7, round(11.664, 1))
	require.Equal(t, 900.0, round(900.0000000000001, 0))
	require.Equal(t, 2.0, round(2.5, 0))
}

func TestFiniteGuard_KeepsFirstError(t *testing.T) {
	var g finiteGuard
	g.check("a", 1)
	g.check("b", 0*posInf())
	g.check("c", posInf())

	require.True(t, errors.Is(g.err, ErrNonFinite))
	require.Contains(t, g.err.Error(), ": b = NaN")
}

func posInf() float64 {
	var zero float64
	return 1 / zero
}

// ============================================================================
// Property-Based Tests
// ============================================================================

// TestProperty_ComputeIsDeterministic verifies that computing twice from
// equal parameter sets yields byte-identical JSON for every model.
func TestProperty_ComputeIsDeterministic(t *testing.T) {
	builtin := Builtin().Models()
	rapid.Check(t, func(t *rapid.T) {
		m := builtin[rapid.IntRange(0, len(builtin)-1).Draw(t, "model")]
		defaults := m.Info().Defaults

		fields := make(map[string]any)
		for _, p := range defaults.Params() {
			if !rapid.Bool().Draw(t, "override-"+p.Name) {
				continue
			}
			switch p.Kind() {
			case params.KindFloat:
				fields[p.Name] = rapid.Float64Range(-1e6, 1e6).Draw(t, p.Name)
			case params.KindInt:
				fields[p.Name] = rapid.IntRange(-5, 40).Draw(t, p.Name)
			case params.KindString:
				fields[p.Name] = rapid.StringMatching(`[A-Za-z_]{0,12}`).Draw(t, p.Name)
			}
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			t.Fatalf("marshal input: %v", err)
		}

		first, err1 := params.Resolve(defaults, raw)
		second, err2 := params.Resolve(defaults, raw)
		if err1 != nil || err2 != nil {
			t.Fatalf("resolve: %v / %v", err1, err2)
		}

		out1, err1 := m.Compute(first)
		out2, err2 := m.Compute(second)
		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("errors differ: %v / %v", err1, err2)
		}
		if err1 != nil {
			return
		}

		b1, _ := json.Marshal(out1)
		b2, _ := json.Marshal(out2)
		if string(b1) != string(b2) {
			t.Fatalf("outputs differ:\n%s\n%s", b1, b2)
		}
	})
}

// TestProperty_ChurnProbabilityClamped verifies the churn probability stays
// within [0.05, 0.95] for any input.
func TestProperty_ChurnProbabilityClamped(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := fmt.Sprintf(`{"account_tenure_months": %v, "nps": %v, "support_tickets": %v, "usage_change_pct": %v}`,
			rapid.Float64Range(-1e12, 1e12).Draw(t, "tenure"),
			rapid.Float64Range(-1e12, 1e12).Draw(t, "nps"),
			rapid.Float64Range(-1e12, 1e12).Draw(t, "tickets"),
			rapid.Float64Range(-1e12, 1e12).Draw(t, "usage"),
		)
		set, err := params.Resolve(churnDefaults, []byte(raw))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		out, err := ChurnRisk{}.Compute(set)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		p := out.(ChurnOutput).ChurnProbability
		if p < 0.05 || p > 0.95 {
			t.Fatalf("churn_probability %v out of bounds", p)
		}
	})
}

// TestProperty_BucketIsMonotonic verifies a higher probability never lands
// in a lower band.
func TestProperty_BucketIsMonotonic(t *testing.T) {
	rank := map[string]int{"low": 0, "medium": 1, "high": 2}
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Float64Range(0, 1).Draw(t, "a")
		b := rapid.Float64Range(0, 1).Draw(t, "b")
		if a > b {
			a, b = b, a
		}
		if rank[ChurnBucket(a)] > rank[ChurnBucket(b)] {
			t.Fatalf("bucket(%v)=%s ranks above bucket(%v)=%s", a, ChurnBucket(a), b, ChurnBucket(b))
		}
	})
}

// TestProperty_SeriesLengthMatchesHorizon verifies one freight entry per
// month, with a minimum of one.
func TestProperty_SeriesLengthMatchesHorizon(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		h := rapid.IntRange(-10, 120).Draw(t, "horizon")
		set, err := params.Resolve(freightDefaults, []byte(fmt.Sprintf(`{"horizon_months": %d}`, h)))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		out, err := FreightForecasting{}.Compute(set)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		want := h
		if want < 1 {
			want = 1
		}
		series := out.(FreightOutput).ForecastSeries
		if len(series) != want {
			t.Fatalf("series has %d entries, want %d", len(series), want)
		}
		for i, pt := range series {
			if pt.Month != int64(i+1) {
				t.Fatalf("entry %d has month %d", i, pt.Month)
			}
		}
	})
}
