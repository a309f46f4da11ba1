package models

import (
	"math"

	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

var supplyChainDefaults = params.NewDefaultSet(
	params.Float("supplier_count", 12),
	params.Float("single_source_pct", 0.35),
	params.Float("lead_time_days", 48),
	params.Float("disruption_probability", 0.18),
)

// Supplier count at which concentration stops adding risk.
const diversifiedSupplierCount = 20.0

// SupplyChainRisk stress-tests a supplier base against disruption.
type SupplyChainRisk struct{}

// SupplyChainOutput is the stress test result.
type SupplyChainOutput struct {
	Header
	ExpectedDelayDays float64 `json:"expected_delay_days"`
	RiskScore         float64 `json:"risk_score"`
}

func (SupplyChainRisk) Info() Info {
	return Info{
		Name:        "supply-chain-risk",
		Aliases:     []string{"supply-chain"},
		Description: "Supplier concentration and disruption stress test",
		Mode:        protocol.ModeSingleShot,
		Defaults:    supplyChainDefaults,
	}
}

func (SupplyChainRisk) Compute(p params.Set) (Output, error) {
	suppliers := p.Float("supplier_count")
	singleSource := p.Float("single_source_pct")
	leadTime := p.Float("lead_time_days")
	disruption := p.Float("disruption_probability")

	concentration := math.Max(0, 1-math.Min(suppliers/diversifiedSupplierCount, 1))
	score := singleSource*60 + disruption*30 + leadTime/60*10 + concentration*5
	delay := leadTime * disruption * (1 + singleSource)

	var g finiteGuard
	g.check("risk_score", score)
	g.check("expected_delay_days", delay)
	if g.err != nil {
		return nil, g.err
	}

	return SupplyChainOutput{
		Header:            Header{Headline: "Supply chain stress test complete"},
		ExpectedDelayDays: round(delay, 1),
		RiskScore:         round(clamp(score, 0, 100), 2),
	}, nil
}
