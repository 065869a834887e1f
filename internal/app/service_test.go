package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/venturecast/internal/app"
	"github.com/okian/venturecast/internal/domain/model"
	"github.com/okian/venturecast/internal/domain/scoring"
	"github.com/okian/venturecast/pkg/logger"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// sequentialIDs mints v1, v2, ... so tests can address ventures directly.
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("v%d", n)
	}
}

// plainVenture scores exactly at the base rate: a seed-stage, tier-three
// venture with no team and only the neutral founder added on submission.
func plainVenture(name string) model.Venture {
	return model.Venture{
		Name:   name,
		Sector: model.SectorFintech,
		Stage:  model.StageSeed,
		VCTier: model.TierThree,
	}
}

func newTestService(opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithClock(func() time.Time { return fixedNow }),
		service.WithIDGenerator(sequentialIDs()),
	}, opts...)
	svc, err := service.New(opts...)
	So(err, ShouldBeNil)
	return svc
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := newTestService()

		Convey("Then it should have sensible defaults", func() {
			So(svc.Mode(), ShouldEqual, scoring.ModeUnicorn)
			summary := svc.Metrics(context.Background(), scoring.ModeUnicorn)
			So(summary.LearningRate, ShouldEqual, 0.5)
			So(summary.Offset, ShouldEqual, 0.0)
			So(summary.EventCount, ShouldEqual, 0)
		})
	})

	Convey("Given an invalid baseline", t, func() {
		b := scoring.DefaultBaseline()
		b.BaseRate = 1

		Convey("Then construction fails", func() {
			_, err := service.New(service.WithBaseline(b))
			So(errors.Is(err, service.ErrInvalidBaseline), ShouldBeTrue)
		})
	})
}

func TestService_AddVenture(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service", t, func() {
		svc := newTestService()

		Convey("When adding a venture without founders", func() {
			sv, err := svc.AddVenture(ctx, plainVenture("Plain"))
			So(err, ShouldBeNil)

			Convey("Then it gets an id, a creation time and a neutral founder", func() {
				So(sv.ID, ShouldEqual, "v1")
				So(sv.CreatedAt, ShouldEqual, fixedNow)
				So(sv.Founders, ShouldResemble, []model.Founder{model.NeutralFounder()})
			})

			Convey("Then it scores at the base rate", func() {
				So(sv.Probability, ShouldAlmostEqual, 0.025, 1e-12)
				So(*sv.PredictedProbability, ShouldAlmostEqual, 0.025, 1e-12)
				So(sv.Mode, ShouldEqual, "unicorn")
			})
		})

		Convey("When adding a venture with an id already in use", func() {
			v := plainVenture("First")
			v.ID = "fixed"
			_, err := svc.AddVenture(ctx, v)
			So(err, ShouldBeNil)
			_, err = svc.AddVenture(ctx, v)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrDuplicateID), ShouldBeTrue)
			})
		})

		Convey("When looking up an unknown venture", func() {
			_, err := svc.Venture(ctx, "missing", scoring.ModeUnicorn)

			Convey("Then it is not found", func() {
				So(errors.Is(err, service.ErrVentureNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Modes(t *testing.T) {
	ctx := context.Background()

	Convey("Given one plain venture", t, func() {
		svc := newTestService()
		_, err := svc.AddVenture(ctx, plainVenture("Plain"))
		So(err, ShouldBeNil)
		base := scoring.Logit(0.025)

		Convey("Decacorn applies the rarity penalty", func() {
			sv, err := svc.Venture(ctx, "v1", scoring.ModeDecacorn)
			So(err, ShouldBeNil)
			So(sv.Probability, ShouldAlmostEqual, scoring.InvLogit(base+math.Log(0.1)), 1e-12)
		})

		Convey("Billionaire applies the equity penalty with its floor", func() {
			sv, err := svc.Venture(ctx, "v1", scoring.ModeBillionaire)
			So(err, ShouldBeNil)
			want := scoring.InvLogit(base + math.Log(0.05) + math.Log(0.5))
			So(want, ShouldBeLessThan, 0.001)
			So(sv.Probability, ShouldEqual, 0.001)
		})

		Convey("SetMode switches the active mode", func() {
			So(svc.SetMode(ctx, scoring.ModeDecacorn), ShouldBeNil)
			So(svc.Mode(), ShouldEqual, scoring.ModeDecacorn)

			Convey("and recordOutcome predicts under it", func() {
				res, err := svc.RecordOutcome(ctx, "v1", model.OutcomeUnicorn)
				So(err, ShouldBeNil)
				So(res.Mode, ShouldEqual, "decacorn")
				So(res.Event.Predicted, ShouldAlmostEqual, scoring.InvLogit(base+math.Log(0.1)), 1e-12)
				So(res.Event.Actual, ShouldEqual, 1)
			})
		})

		Convey("SetMode rejects unknown modes", func() {
			err := svc.SetMode(ctx, scoring.Mode(9))
			So(errors.Is(err, service.ErrInvalidMode), ShouldBeTrue)
			So(svc.Mode(), ShouldEqual, scoring.ModeUnicorn)
		})
	})
}

func TestService_RecordOutcome(t *testing.T) {
	ctx := context.Background()

	Convey("Given one plain venture at the base rate", t, func() {
		svc := newTestService()
		_, err := svc.AddVenture(ctx, plainVenture("Plain"))
		So(err, ShouldBeNil)

		Convey("When it becomes a unicorn", func() {
			res, err := svc.RecordOutcome(ctx, "v1", model.OutcomeUnicorn)
			So(err, ShouldBeNil)

			Convey("Then the offset moves by half the error", func() {
				So(res.Event.Predicted, ShouldAlmostEqual, 0.025, 1e-12)
				So(res.Event.Error, ShouldAlmostEqual, 0.975, 1e-12)
				So(res.OffsetBefore, ShouldEqual, 0.0)
				So(res.OffsetAfter, ShouldAlmostEqual, 0.4875, 1e-12)
				So(res.Event.Timestamp, ShouldEqual, fixedNow)
			})

			Convey("Then the venture is labeled", func() {
				sv, err := svc.Venture(ctx, "v1", scoring.ModeUnicorn)
				So(err, ShouldBeNil)
				So(sv.ActualOutcome, ShouldEqual, model.OutcomeUnicorn)
				So(*sv.PredictedProbability, ShouldAlmostEqual, 0.025, 1e-12)
				So(sv.Probability, ShouldAlmostEqual, scoring.InvLogit(scoring.Logit(0.025)+0.4875), 1e-12)
			})

			Convey("Then the metrics reflect the single event", func() {
				m := svc.Metrics(ctx, scoring.ModeUnicorn)
				So(m.EventCount, ShouldEqual, 1)
				So(*m.Brier, ShouldAlmostEqual, 0.975*0.975, 1e-12)
				So(*m.LogLoss, ShouldAlmostEqual, -math.Log(0.025), 1e-9)
				So(*m.Accuracy, ShouldAlmostEqual, 0.025, 1e-12)
				So(*m.AveragePrediction, ShouldAlmostEqual, scoring.InvLogit(scoring.Logit(0.025)+0.4875), 1e-12)
			})

			Convey("And it is recorded again as failed", func() {
				again, err := svc.RecordOutcome(ctx, "v1", model.OutcomeFailed)
				So(err, ShouldBeNil)

				Convey("Then a second independent step is applied", func() {
					p := scoring.InvLogit(scoring.Logit(0.025) + 0.4875)
					So(again.Event.Predicted, ShouldAlmostEqual, p, 1e-12)
					So(again.Event.Actual, ShouldEqual, 0)
					So(again.OffsetAfter, ShouldAlmostEqual, 0.4875-0.5*p, 1e-12)
					So(svc.CalibrationEvents(ctx), ShouldHaveLength, 2)
				})
			})
		})

		Convey("When a lesser success is recorded", func() {
			res, err := svc.RecordOutcome(ctx, "v1", model.OutcomeSuccess)
			So(err, ShouldBeNil)

			Convey("Then it counts as a miss for the unicorn target", func() {
				So(res.Event.Actual, ShouldEqual, 0)
				So(res.OffsetAfter, ShouldAlmostEqual, -0.0125, 1e-12)
			})
		})

		Convey("When the outcome is not terminal", func() {
			_, err := svc.RecordOutcome(ctx, "v1", model.OutcomeActive)

			Convey("Then it is rejected without touching the state", func() {
				So(errors.Is(err, service.ErrInvalidOutcome), ShouldBeTrue)
				So(svc.CalibrationEvents(ctx), ShouldBeEmpty)
			})
		})

		Convey("When the venture is unknown", func() {
			_, err := svc.RecordOutcome(ctx, "missing", model.OutcomeUnicorn)

			Convey("Then it is not found", func() {
				So(errors.Is(err, service.ErrVentureNotFound), ShouldBeTrue)
				So(svc.Metrics(ctx, scoring.ModeUnicorn).Offset, ShouldEqual, 0.0)
			})
		})
	})
}

func TestService_Rankings(t *testing.T) {
	ctx := context.Background()

	Convey("Given ventures at different stages", t, func() {
		svc := newTestService()
		for _, st := range []model.Stage{model.StageSeed, model.StageSeriesB, model.StageSeriesA} {
			v := plainVenture(st.String())
			v.Stage = st
			_, err := svc.AddVenture(ctx, v)
			So(err, ShouldBeNil)
		}

		Convey("TopN orders by probability", func() {
			top, err := svc.TopN(ctx, scoring.ModeUnicorn, 10)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 3)
			So(top[0].VentureID, ShouldEqual, "v2")
			So(top[1].VentureID, ShouldEqual, "v3")
			So(top[2].VentureID, ShouldEqual, "v1")
			So(top[2].Probability, ShouldAlmostEqual, 0.025, 1e-12)
		})

		Convey("Rankings follow the calibration offset", func() {
			_, err := svc.RecordOutcome(ctx, "v1", model.OutcomeUnicorn)
			So(err, ShouldBeNil)

			top, err := svc.TopN(ctx, scoring.ModeUnicorn, 1)
			So(err, ShouldBeNil)
			sv, _ := svc.Venture(ctx, "v2", scoring.ModeUnicorn)
			So(top[0].Probability, ShouldAlmostEqual, sv.Probability, 1e-12)
		})

		Convey("Rank reports one venture's position", func() {
			e, err := svc.Rank(ctx, scoring.ModeDecacorn, "v3")
			So(err, ShouldBeNil)
			So(e.Rank, ShouldEqual, 2)
			So(e.Name, ShouldEqual, "series_a")

			_, err = svc.Rank(ctx, scoring.ModeUnicorn, "missing")
			So(errors.Is(err, service.ErrVentureNotFound), ShouldBeTrue)
		})

		Convey("TopN rejects non-positive limits", func() {
			_, err := svc.TopN(ctx, scoring.ModeUnicorn, 0)
			So(errors.Is(err, service.ErrInvalidLimit), ShouldBeTrue)
		})

		Convey("Sectors aggregates observed hits", func() {
			other := plainVenture("Health")
			other.Sector = model.SectorHealthtech
			_, err := svc.AddVenture(ctx, other)
			So(err, ShouldBeNil)
			_, err = svc.RecordOutcome(ctx, "v1", model.OutcomeUnicorn)
			So(err, ShouldBeNil)

			sectors := svc.Sectors(ctx, scoring.ModeUnicorn)
			So(sectors, ShouldHaveLength, 2)
			So(sectors[0].Sector, ShouldEqual, "fintech")
			So(sectors[0].Count, ShouldEqual, 3)
			So(sectors[0].TargetHits, ShouldEqual, 1)
			So(sectors[0].ActualRate, ShouldAlmostEqual, 1.0/3, 1e-12)
			So(sectors[1].Sector, ShouldEqual, "healthtech")
			So(sectors[1].TargetHits, ShouldEqual, 0)
		})
	})
}

func TestService_ClampedRankings(t *testing.T) {
	ctx := context.Background()

	Convey("Given ventures whose billionaire probabilities hit the floor", t, func() {
		svc := newTestService()
		for _, st := range []model.Stage{model.StageSeed, model.StageSeriesA, model.StageSeriesCPlus} {
			v := plainVenture(st.String())
			v.Stage = st
			_, err := svc.AddVenture(ctx, v)
			So(err, ShouldBeNil)
		}

		Convey("Then ventures shown at the same probability share a rank", func() {
			top, err := svc.TopN(ctx, scoring.ModeBillionaire, 3)
			So(err, ShouldBeNil)
			So(top, ShouldHaveLength, 3)
			So(top[0].VentureID, ShouldEqual, "v3")
			So(top[0].Rank, ShouldEqual, 1)
			So(top[0].Probability, ShouldBeGreaterThan, 0.001)
			So(top[1].Probability, ShouldEqual, 0.001)
			So(top[2].Probability, ShouldEqual, 0.001)
			So(top[1].Rank, ShouldEqual, 2)
			So(top[2].Rank, ShouldEqual, 2)

			for _, id := range []string{"v1", "v2"} {
				e, err := svc.Rank(ctx, scoring.ModeBillionaire, id)
				So(err, ShouldBeNil)
				So(e.Rank, ShouldEqual, 2)
				So(e.Probability, ShouldEqual, 0.001)
			}
		})
	})
}

func TestService_StartSeedingFailure(t *testing.T) {
	ctx := context.Background()

	Convey("Given sample seeding that cannot complete", t, func() {
		svc := newTestService(
			service.WithSampleVentures(2, 1),
			service.WithIDGenerator(func() string { return "same" }),
		)
		err := svc.Start(ctx)

		Convey("Then Start fails without leaving the async path running", func() {
			So(errors.Is(err, service.ErrDuplicateID), ShouldBeTrue)

			stats := svc.GetStats(ctx)
			So(stats["started"], ShouldEqual, false)
			So(stats, ShouldNotContainKey, "queue_length")
			So(stats, ShouldNotContainKey, "observations")

			_, err := svc.SubmitOutcome(ctx, "same", "unicorn")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.Stop(ctx), ShouldBeNil)
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a service that was not started", t, func() {
		svc := newTestService()
		stats := svc.GetStats(context.Background())

		Convey("Then stats report the idle state", func() {
			So(stats["started"], ShouldEqual, false)
			So(stats["ventures"], ShouldEqual, 0)
			So(stats["mode"], ShouldEqual, "unicorn")
			So(stats, ShouldNotContainKey, "queue_length")
		})
	})
}
