package models

import (
	"fmt"
	"math"

	"github.com/aescanero/scenario/internal/params"
	"github.com/aescanero/scenario/internal/protocol"
)

var inputOutputDefaults = params.NewDefaultSet(
	params.String("industry", "Manufacturing"),
	params.Float("shock_value", 100.0),
	params.String("region", "US"),
	params.Int("year", 2026),
)

const (
	outputMultiplier = 1.35
	jobsPerShockUnit = 8.5
)

// Share of the demand shock that lands in each linked sector.
var sectorShares = []struct {
	sector string
	share  float64
}{
	{"Suppliers", 0.42},
	{"Logistics", 0.18},
	{"Services", 0.22},
}

// InputOutput runs a Leontief-style multiplier over a final demand shock.
type InputOutput struct{}

// SectorImpact is the shock transmitted to one linked sector.
type SectorImpact struct {
	Sector string  `json:"sector"`
	Impact float64 `json:"impact"`
}

// InputOutputOutput is the input-output run result.
type InputOutputOutput struct {
	Header
	Region           string         `json:"region"`
	Industry         string         `json:"industry"`
	Year             int64          `json:"year"`
	GDPImpact        float64        `json:"gdp_impact"`
	EmploymentImpact int64          `json:"employment_impact"`
	SectorImpacts    []SectorImpact `json:"sector_impacts"`
}

func (InputOutput) Info() Info {
	return Info{
		Name:        "input-output",
		Aliases:     []string{"io"},
		Description: "GDP, employment and linked-sector impact of a demand shock",
		Mode:        protocol.ModeSingleShot,
		Defaults:    inputOutputDefaults,
	}
}

func (InputOutput) Compute(p params.Set) (Output, error) {
	shock := p.Float("shock_value")

	jobs := math.RoundToEven(shock * jobsPerShockUnit)
	var g finiteGuard
	g.check("employment_impact", jobs)
	if g.err != nil {
		return nil, g.err
	}
	if jobs >= math.MaxInt64 || jobs < math.MinInt64 {
		return nil, fmt.Errorf("%w: employment_impact = %v", ErrOutOfRange, jobs)
	}

	impacts := make([]SectorImpact, 0, len(sectorShares))
	for _, s := range sectorShares {
		impacts = append(impacts, SectorImpact{Sector: s.sector, Impact: round(shock*s.share, 2)})
	}

	return InputOutputOutput{
		Header:           Header{Headline: "Input-output run complete"},
		Region:           p.String("region"),
		Industry:         p.String("industry"),
		Year:             p.Int("year"),
		GDPImpact:        round(shock*outputMultiplier, 2),
		EmploymentImpact: int64(jobs),
		SectorImpacts:    impacts,
	}, nil
}
