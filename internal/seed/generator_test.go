package seed

import (
	"testing"
	"time"

	"github.com/okian/venturecast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		clock := func() time.Time { return now }
		gen := NewGenerator(WithSeed(7), WithClock(clock))

		Convey("When generating ventures", func() {
			vs := gen.Ventures(500)

			Convey("Then every field stays in its sampling range", func() {
				So(vs, ShouldHaveLength, 500)
				for _, v := range vs {
					So(v.ID, ShouldBeEmpty)
					So(v.TeamSize, ShouldBeBetweenOrEqual, 5, 54)
					So(v.FundingAmount.IntPart(), ShouldBeBetweenOrEqual, 1_000_000, 50_999_999)
					So(v.ExpectedEquity, ShouldBeBetweenOrEqual, 0.1, 0.4)
					So(len(v.Founders), ShouldBeBetweenOrEqual, 1, 3)
					So(v.CreatedAt.After(now), ShouldBeFalse)
					So(v.CreatedAt.Before(now.Add(-366*24*time.Hour)), ShouldBeFalse)
					for _, f := range v.Founders {
						So(f.YearsExperience, ShouldBeBetweenOrEqual, 2, 16)
					}
				}
			})

			Convey("Then names continue across calls", func() {
				So(vs[0].Name, ShouldEqual, "Venture 1")
				next := gen.Ventures(1)
				So(next[0].Name, ShouldEqual, "Venture 501")
			})

			Convey("Then outcomes are mostly active with a few unicorns", func() {
				counts := map[model.Outcome]int{}
				for _, v := range vs {
					counts[v.ActualOutcome]++
				}
				So(counts[model.OutcomeFailed], ShouldEqual, 0)
				So(counts[model.OutcomeUnicorn], ShouldBeBetween, 5, 50)
				So(counts[model.OutcomeSuccess], ShouldBeBetween, 30, 120)
				So(counts[model.OutcomeActive], ShouldBeGreaterThan, 300)
			})
		})

		Convey("When a second generator uses the same seed", func() {
			a := gen.Ventures(20)
			b := NewGenerator(WithSeed(7), WithClock(clock)).Ventures(20)

			Convey("Then it produces the same ventures", func() {
				So(b, ShouldResemble, a)
			})
		})

		Convey("When a generator uses another seed", func() {
			a := gen.Ventures(20)
			b := NewGenerator(WithSeed(8), WithClock(clock)).Ventures(20)

			Convey("Then the ventures differ", func() {
				So(b, ShouldNotResemble, a)
			})
		})
	})
}
