package scoring

import (
	"math"

	"github.com/okian/venturecast/internal/domain/model"
)

// FounderMultiplier is the product of every boost whose flag is set for f.
// The serial-founder boost needs both a prior venture and a prior success.
func FounderMultiplier(f model.Founder, b BaselineModel) float64 {
	mul := 1.0
	if f.PriorFounder && f.PriorSuccess {
		mul *= b.SerialFounderBoost
	}
	if f.BigTechExperience {
		mul *= b.PriorBigTechBoost
	}
	if f.AdvancedDegree {
		mul *= b.AdvancedDegreeBoost
	}
	if f.Immigrant {
		mul *= b.ImmigrantFounderBoost
	}
	return mul
}

// FeatureContribution returns the log-odds contribution of v's attributes:
// founders, investor tier, team scale and stage. It excludes the base rate,
// the calibration offset and any mode adjustment.
func FeatureContribution(v *model.Venture, b BaselineModel, p Parameters) float64 {
	return founderTerm(v.Founders, b, p) +
		safeLog(vcMultiplier(v.VCTier, b, p), p) +
		safeLog(managementMultiplier(v.TeamSize, b, p), p) +
		safeLog(stageMultiplier(v.Stage, p), p)
}

// founderTerm is the log of the geometric mean of per-founder multipliers.
// No founders means no contribution.
func founderTerm(founders []model.Founder, b BaselineModel, p Parameters) float64 {
	if len(founders) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range founders {
		sum += safeLog(FounderMultiplier(f, b), p)
	}
	return sum / float64(len(founders))
}

func vcMultiplier(t model.VCTier, b BaselineModel, p Parameters) float64 {
	switch t {
	case model.TierOne:
		return b.TierOneVCBoost
	case model.TierTwo:
		return p.TierTwoVCBoost
	default:
		return 1
	}
}

// managementMultiplier grows linearly from 1 with no team to the configured
// multiplier once the team reaches the scale cap.
func managementMultiplier(teamSize int, b BaselineModel, p Parameters) float64 {
	scale := math.Min(float64(teamSize)/float64(p.TeamScaleCap), 1)
	return 1 + scale*(b.ManagementMultiplier-1)
}

func stageMultiplier(s model.Stage, p Parameters) float64 {
	switch s {
	case model.StageSeriesA:
		return p.SeriesAMultiplier
	case model.StageSeriesB:
		return p.SeriesBMultiplier
	case model.StageSeriesCPlus:
		return p.SeriesCPlusMultiplier
	default:
		return p.SeedMultiplier
	}
}

func safeLog(x float64, p Parameters) float64 {
	return math.Log(math.Max(x, p.MultiplierFloor))
}
