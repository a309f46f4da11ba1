package models

import (
	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

var pricingDefaults = params.NewDefaultSet(
	params.Float("current_price", 120.0),
	params.Float("proposed_price", 132.0),
	params.Float("baseline_volume", 50000),
	params.Float("elasticity", -1.2),
)

// Margin impact assumed on top of the revenue change, in percentage points.
const pricingMarginDrag = 2.5

// PricingElasticity projects volume and revenue under a price change with
// a constant price elasticity of demand.
type PricingElasticity struct{}

// PricingOutput is the pricing scenario result.
type PricingOutput struct {
	Header
	PriceChangePct   float64 `json:"price_change_pct"`
	VolumeChangePct  float64 `json:"volume_change_pct"`
	ProjectedVolume  float64 `json:"projected_volume"`
	RevenueChangePct float64 `json:"revenue_change_pct"`
	MarginChangePct  float64 `json:"margin_change_pct"`
}

func (PricingElasticity) Info() Info {
	return Info{
		Name:        "pricing-elasticity",
		Aliases:     []string{"pricing"},
		Description: "Volume and revenue impact of a price change",
		Mode:        protocol.ModeSingleShot,
		Defaults:    pricingDefaults,
	}
}

func (PricingElasticity) Compute(p params.Set) (Output, error) {
	currentPrice := p.Float("current_price")
	proposedPrice := p.Float("proposed_price")
	baselineVolume := p.Float("baseline_volume")
	elasticity := p.Float("elasticity")

	var g finiteGuard
	priceChange := g.check("price_change_pct", (proposedPrice-currentPrice)/currentPrice)
	volumeChange := elasticity * priceChange
	projectedVolume := round(baselineVolume*(1+volumeChange), 0)

	baselineRevenue := currentPrice * baselineVolume
	projectedRevenue := proposedPrice * projectedVolume
	revenueChange := g.check("revenue_change_pct", (projectedRevenue-baselineRevenue)/baselineRevenue*100)
	if g.err != nil {
		return nil, g.err
	}

	revenueChangePct := round(revenueChange, 2)
	return PricingOutput{
		Header:           Header{Headline: "Pricing scenario evaluated"},
		PriceChangePct:   round(priceChange, 4),
		VolumeChangePct:  round(volumeChange, 4),
		ProjectedVolume:  projectedVolume,
		RevenueChangePct: revenueChangePct,
		MarginChangePct:  round(revenueChangePct-pricingMarginDrag, 2),
	}, nil
}
