package models

import (
	"math"

	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

var churnDefaults = params.NewDefaultSet(
	params.Float("account_tenure_months", 18),
	params.Float("nps", 12),
	params.Float("support_tickets", 5),
	params.Float("usage_change_pct", -18),
)

const (
	churnBase      = 0.22
	churnMinProb   = 0.05
	churnMaxProb   = 0.95
	churnPerUsage  = 0.01
	churnPerTicket = 0.03
	churnPerNPS    = 0.004
	churnPerTenure = 0.002
)

var churnBands = bands{
	{floor: 0.65, label: "high"},
	{floor: 0.35, label: "medium"},
	{floor: math.Inf(-1), label: "low"},
}

// ChurnRisk scores an account's probability of churning.
type ChurnRisk struct{}

// ChurnOutput is the churn scoring result.
type ChurnOutput struct {
	Header
	ChurnProbability float64 `json:"churn_probability"`
	RiskBucket       string  `json:"risk_bucket"`
}

func (ChurnRisk) Info() Info {
	return Info{
		Name:        "churn-risk",
		Aliases:     []string{"churn"},
		Description: "Account churn probability and risk bucket",
		Mode:        protocol.ModeSingleShot,
		Defaults:    churnDefaults,
	}
}

func (ChurnRisk) Compute(p params.Set) (Output, error) {
	risk := ChurnProbability(
		p.Float("account_tenure_months"),
		p.Float("nps"),
		p.Float("support_tickets"),
		p.Float("usage_change_pct"),
	)

	var g finiteGuard
	g.check("churn_probability", risk)
	if g.err != nil {
		return nil, g.err
	}

	return ChurnOutput{
		Header:           Header{Headline: "Churn risk scored"},
		ChurnProbability: round(risk, 2),
		RiskBucket:       ChurnBucket(risk),
	}, nil
}

// ChurnProbability returns the clamped, unrounded churn probability.
func ChurnProbability(tenure, nps, tickets, usageChange float64) float64 {
	risk := churnBase +
		math.Max(0, -usageChange)*churnPerUsage +
		tickets*churnPerTicket -
		nps*churnPerNPS -
		tenure*churnPerTenure
	return clamp(risk, churnMinProb, churnMaxProb)
}

// ChurnBucket maps a probability to low, medium or high.
func ChurnBucket(probability float64) string {
	return churnBands.classify(probability)
}
