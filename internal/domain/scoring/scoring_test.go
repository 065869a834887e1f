package scoring_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/venturecast/internal/domain/model"
	scoring "github.com/okian/venturecast/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// neutralVenture has every multiplier at 1: no founders, tier three, no team, seed.
func neutralVenture() *model.Venture {
	return &model.Venture{
		ID:             "v-neutral",
		Stage:          model.StageSeed,
		VCTier:         model.TierThree,
		ExpectedEquity: 0.15,
	}
}

func TestEngine_Probability(t *testing.T) {
	Convey("Given an engine with the reference baseline", t, func() {
		engine := scoring.NewEngine()

		Convey("When scoring a venture with all multipliers neutral", func() {
			p := engine.Probability(neutralVenture(), 0, scoring.ModeUnicorn)

			Convey("Then it should return the base rate", func() {
				So(p, ShouldAlmostEqual, 0.025, 1e-12)
			})
		})

		Convey("When the same venture is backed by a tier-one investor", func() {
			v := neutralVenture()
			v.VCTier = model.TierOne
			p := engine.Probability(v, 0, scoring.ModeUnicorn)

			Convey("Then the odds should be multiplied by the tier-one boost", func() {
				want := scoring.InvLogit(scoring.Logit(0.025) + math.Log(1.8))
				So(p, ShouldAlmostEqual, want, 1e-9)
			})
		})

		Convey("When a zero-founder venture has tier, team and stage effects", func() {
			v := neutralVenture()
			v.VCTier = model.TierTwo
			v.TeamSize = 10
			v.Stage = model.StageSeriesA
			p := engine.Probability(v, 0, scoring.ModeUnicorn)

			Convey("Then only those three terms should adjust the base rate", func() {
				want := scoring.InvLogit(scoring.Logit(0.025) + math.Log(1.2) + math.Log(1.2) + math.Log(1.4))
				So(p, ShouldAlmostEqual, want, 1e-9)
			})
		})

		Convey("When a calibration offset is applied", func() {
			p := engine.Probability(neutralVenture(), 0.45, scoring.ModeUnicorn)

			Convey("Then it should shift the log-odds", func() {
				So(p, ShouldAlmostEqual, scoring.InvLogit(scoring.Logit(0.025)+0.45), 1e-12)
			})
		})

		Convey("When the offset is extreme", func() {
			high := engine.Probability(neutralVenture(), 50, scoring.ModeUnicorn)
			low := engine.Probability(neutralVenture(), -50, scoring.ModeUnicorn)

			Convey("Then the probability should be clamped", func() {
				So(high, ShouldEqual, 0.8)
				So(low, ShouldEqual, 0.001)
			})
		})

		Convey("When the same inputs are scored twice", func() {
			v := neutralVenture()
			v.Founders = []model.Founder{{PriorFounder: true, PriorSuccess: true, Immigrant: true}}

			Convey("Then the results should be identical", func() {
				So(engine.Probability(v, 0.3, scoring.ModeBillionaire), ShouldEqual, engine.Probability(v, 0.3, scoring.ModeBillionaire))
			})
		})
	})
}

func TestEngine_Monotonicity(t *testing.T) {
	Convey("Given an engine and a mid-sized venture", t, func() {
		engine := scoring.NewEngine()
		v := neutralVenture()
		v.VCTier = model.TierOne
		v.Founders = []model.Founder{{BigTechExperience: true}}

		Convey("When the team grows", func() {
			Convey("Then the score should never decrease and should saturate at the cap", func() {
				prev := 0.0
				for size := 0; size <= 40; size++ {
					v.TeamSize = size
					p := engine.Probability(v, 0, scoring.ModeUnicorn)
					So(p, ShouldBeGreaterThanOrEqualTo, prev)
					prev = p
				}
				v.TeamSize = 20
				atCap := engine.Probability(v, 0, scoring.ModeUnicorn)
				v.TeamSize = 200
				So(engine.Probability(v, 0, scoring.ModeUnicorn), ShouldEqual, atCap)
			})
		})

		Convey("When the venture matures through each stage", func() {
			Convey("Then the score should strictly increase", func() {
				prev := -1.0
				for _, stage := range model.Stages() {
					v.Stage = stage
					p := engine.Probability(v, 0, scoring.ModeUnicorn)
					So(p, ShouldBeGreaterThan, prev)
					prev = p
				}
			})
		})
	})
}

func TestEngine_Modes(t *testing.T) {
	Convey("Given an engine", t, func() {
		engine := scoring.NewEngine()

		Convey("When comparing the decacorn and unicorn modes", func() {
			Convey("Then the decacorn score should never exceed the unicorn score", func() {
				for _, offset := range []float64{-10, -1, 0, 1, 3, 10} {
					for _, stage := range model.Stages() {
						v := neutralVenture()
						v.Stage = stage
						v.VCTier = model.TierOne
						v.TeamSize = 30
						So(engine.Probability(v, offset, scoring.ModeDecacorn), ShouldBeLessThanOrEqualTo,
							engine.Probability(v, offset, scoring.ModeUnicorn))
					}
				}
			})
		})

		Convey("When scoring in decacorn mode", func() {
			v := neutralVenture()

			Convey("Then the odds should carry the rarity penalty", func() {
				So(engine.LogOdds(v, 0, scoring.ModeDecacorn)-engine.LogOdds(v, 0, scoring.ModeUnicorn),
					ShouldAlmostEqual, math.Log(0.1), 1e-12)
			})
		})

		Convey("When scoring in billionaire mode", func() {
			v := neutralVenture()

			Convey("Then reference equity should only carry the base penalty", func() {
				v.ExpectedEquity = 0.15
				So(engine.ModeAdjustment(v, scoring.ModeBillionaire), ShouldAlmostEqual, math.Log(0.05), 1e-12)
			})

			Convey("And doubled equity should double the odds", func() {
				v.ExpectedEquity = 0.30
				So(engine.ModeAdjustment(v, scoring.ModeBillionaire), ShouldAlmostEqual, math.Log(0.05)+math.Log(2), 1e-12)
			})

			Convey("And tiny or out-of-range equity should hit the floor", func() {
				for _, eq := range []float64{0, 0.01, -3} {
					v.ExpectedEquity = eq
					So(engine.ModeAdjustment(v, scoring.ModeBillionaire), ShouldAlmostEqual, math.Log(0.05)+math.Log(0.5), 1e-12)
				}
			})
		})
	})
}

func TestEngine_Range(t *testing.T) {
	Convey("Given extreme ventures and offsets", t, func() {
		engine := scoring.NewEngine()
		strong := model.Founder{PriorFounder: true, PriorSuccess: true, BigTechExperience: true, AdvancedDegree: true, Immigrant: true}

		Convey("Then every score should stay within the clamp", func() {
			for _, m := range scoring.Modes() {
				for _, offset := range []float64{-1e6, -5, 0, 5, 1e6} {
					for _, team := range []int{-100, 0, 7, 1000} {
						v := &model.Venture{
							Stage:          model.StageSeriesCPlus,
							VCTier:         model.TierOne,
							TeamSize:       team,
							ExpectedEquity: 0.9,
							Founders:       []model.Founder{strong, strong},
						}
						p := engine.Probability(v, offset, m)
						So(p, ShouldBeBetweenOrEqual, 0.001, 0.8)
					}
				}
			}
		})
	})
}

func TestFeatureContribution(t *testing.T) {
	Convey("Given the reference baseline", t, func() {
		b := scoring.DefaultBaseline()
		p := scoring.DefaultParameters()

		Convey("When a founder has a prior venture but no prior success", func() {
			f := model.Founder{PriorFounder: true}

			Convey("Then the serial-founder boost should not apply", func() {
				So(scoring.FounderMultiplier(f, b), ShouldEqual, 1.0)
			})
		})

		Convey("When a founder triggers every boost", func() {
			f := model.Founder{PriorFounder: true, PriorSuccess: true, BigTechExperience: true, AdvancedDegree: true, Immigrant: true}

			Convey("Then all boosts should multiply", func() {
				So(scoring.FounderMultiplier(f, b), ShouldAlmostEqual, 1.5*1.3*1.1*1.2, 1e-12)
			})
		})

		Convey("When a venture has two founders", func() {
			v := neutralVenture()
			v.Founders = []model.Founder{{BigTechExperience: true}, {}}

			Convey("Then the founder term should be the log of the geometric mean", func() {
				So(scoring.FeatureContribution(v, b, p), ShouldAlmostEqual, math.Log(math.Sqrt(1.3)), 1e-12)
			})

			Convey("And founder order should not matter", func() {
				swapped := neutralVenture()
				swapped.Founders = []model.Founder{{}, {BigTechExperience: true}}
				So(scoring.FeatureContribution(swapped, b, p), ShouldAlmostEqual, scoring.FeatureContribution(v, b, p), 1e-15)
			})
		})

		Convey("When a boost is configured as zero", func() {
			zero := b
			zero.PriorBigTechBoost = 0
			v := neutralVenture()
			v.Founders = []model.Founder{{BigTechExperience: true}}

			Convey("Then the multiplier should be floored instead of producing -Inf", func() {
				got := scoring.FeatureContribution(v, zero, p)
				So(math.IsInf(got, 0), ShouldBeFalse)
				So(got, ShouldAlmostEqual, math.Log(1e-6), 1e-9)
			})
		})

		Convey("When a venture has no founders", func() {
			Convey("Then neutral attributes should contribute nothing", func() {
				So(scoring.FeatureContribution(neutralVenture(), b, p), ShouldEqual, 0)
			})
		})
	})
}

func TestValidation(t *testing.T) {
	Convey("Given baseline models", t, func() {
		Convey("When the reference model is validated", func() {
			So(scoring.DefaultBaseline().Validate(), ShouldBeNil)
		})

		Convey("When the base rate is 0 or 1", func() {
			for _, rate := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
				b := scoring.DefaultBaseline()
				b.BaseRate = rate
				err := b.Validate()
				So(errors.Is(err, scoring.ErrInvalidBaseline), ShouldBeTrue)
			}
		})

		Convey("When a boost is negative", func() {
			b := scoring.DefaultBaseline()
			b.ImmigrantFounderBoost = -1
			err := b.Validate()
			So(errors.Is(err, scoring.ErrInvalidBaseline), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "immigrant_founder_boost")
		})
	})

	Convey("Given scoring parameters", t, func() {
		Convey("When the reference parameters are validated", func() {
			So(scoring.DefaultParameters().Validate(), ShouldBeNil)
		})

		Convey("When the probability bounds are inverted", func() {
			p := scoring.DefaultParameters()
			p.MinProbability, p.MaxProbability = 0.9, 0.1
			So(errors.Is(p.Validate(), scoring.ErrInvalidParameters), ShouldBeTrue)
		})

		Convey("When the team scale cap is zero", func() {
			p := scoring.DefaultParameters()
			p.TeamScaleCap = 0
			So(errors.Is(p.Validate(), scoring.ErrInvalidParameters), ShouldBeTrue)
		})

		Convey("When the rare penalty is zero", func() {
			p := scoring.DefaultParameters()
			p.RarePenalty = 0
			So(errors.Is(p.Validate(), scoring.ErrInvalidParameters), ShouldBeTrue)
		})
	})
}

func TestMode(t *testing.T) {
	Convey("Given mode wire names", t, func() {
		Convey("When parsing known modes", func() {
			for _, m := range scoring.Modes() {
				got, err := scoring.ParseMode(m.String())
				So(err, ShouldBeNil)
				So(got, ShouldEqual, m)
			}
		})

		Convey("When parsing an unknown mode", func() {
			_, err := scoring.ParseMode("hectocorn")
			So(errors.Is(err, scoring.ErrUnknownMode), ShouldBeTrue)
		})

		Convey("When mapping outcomes to actuals", func() {
			So(scoring.ModeUnicorn.Actual(model.OutcomeUnicorn), ShouldEqual, 1)
			So(scoring.ModeBillionaire.Actual(model.OutcomeUnicorn), ShouldEqual, 1)
			So(scoring.ModeUnicorn.Actual(model.OutcomeSuccess), ShouldEqual, 0)
			So(scoring.ModeDecacorn.Actual(model.OutcomeFailed), ShouldEqual, 0)
		})
	})
}
