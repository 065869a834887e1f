// Package seed generates sample ventures and replays them against a running
// service.
package seed

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/venturecast/internal/domain/model"
)

// Sampling ranges for generated ventures.
const (
	minTeamSize      = 5
	teamSizeSpan     = 50
	minFunding       = 1_000_000
	fundingSpan      = 50_000_000
	minEquity        = 0.10
	equitySpan       = 0.30
	maxFounders      = 3
	minYears         = 2
	yearsSpan        = 15
	unicornThreshold = 0.95
	successThreshold = 0.85
	createdWithin    = 365 * 24 * time.Hour
)

// Independent chances of each founder flag being set.
const (
	priorFounderChance   = 0.4
	priorSuccessChance   = 0.3
	bigTechChance        = 0.5
	advancedDegreeChance = 0.6
	immigrantChance      = 0.5
)

// GeneratorOption applies a configuration option to the Generator.
type GeneratorOption func(*Generator)

// WithSeed fixes the random sequence so runs are reproducible.
func WithSeed(seed int64) GeneratorOption {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithClock sets the reference time creation dates are drawn before.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator produces plausible venture records. It is not safe for
// concurrent use.
type Generator struct {
	seed int64
	now  func() time.Time
	rnd  *rand.Rand
	next int
}

// NewGenerator creates a generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{seed: 1, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	g.rnd = rand.New(rand.NewPCG(uint64(g.seed), uint64(g.seed)^0x9e3779b97f4a7c15))
	return g
}

// Ventures returns the next n ventures. Ids are left empty for the service
// to assign. Roughly 5% are labeled unicorn and 14% success; the rest are
// active.
func (g *Generator) Ventures(n int) []model.Venture {
	sectors, stages, tiers := model.Sectors(), model.Stages(), model.VCTiers()
	now := g.now()
	out := make([]model.Venture, 0, n)
	for range n {
		g.next++
		v := model.Venture{
			Name:           fmt.Sprintf("Venture %d", g.next),
			Sector:         sectors[g.rnd.IntN(len(sectors))],
			Stage:          stages[g.rnd.IntN(len(stages))],
			TeamSize:       minTeamSize + g.rnd.IntN(teamSizeSpan),
			FundingAmount:  decimal.NewFromInt(minFunding + g.rnd.Int64N(fundingSpan)),
			VCTier:         tiers[g.rnd.IntN(len(tiers))],
			ExpectedEquity: minEquity + g.rnd.Float64()*equitySpan,
			Founders:       g.founders(),
			ActualOutcome:  g.outcome(),
			CreatedAt:      now.Add(-time.Duration(g.rnd.Float64() * float64(createdWithin))),
		}
		out = append(out, v)
	}
	return out
}

func (g *Generator) founders() []model.Founder {
	n := 1 + g.rnd.IntN(maxFounders)
	fs := make([]model.Founder, n)
	for i := range fs {
		fs[i] = model.Founder{
			Name:              fmt.Sprintf("Founder %d", i+1),
			PriorFounder:      g.chance(priorFounderChance),
			PriorSuccess:      g.chance(priorSuccessChance),
			BigTechExperience: g.chance(bigTechChance),
			AdvancedDegree:    g.chance(advancedDegreeChance),
			Immigrant:         g.chance(immigrantChance),
			YearsExperience:   minYears + g.rnd.IntN(yearsSpan),
		}
	}
	return fs
}

func (g *Generator) outcome() model.Outcome {
	if g.rnd.Float64() > unicornThreshold {
		return model.OutcomeUnicorn
	}
	if g.rnd.Float64() > successThreshold {
		return model.OutcomeSuccess
	}
	return model.OutcomeActive
}

func (g *Generator) chance(p float64) bool {
	return g.rnd.Float64() < p
}
