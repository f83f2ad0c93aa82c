package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/okian/drawdown/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When a request ID is claimed for the first time", func() {
			job, seen := d.Claim(ctx, "req-1", "job-1")

			Convey("Then it should be recorded for that job", func() {
				So(seen, ShouldBeFalse)
				So(job, ShouldEqual, "job-1")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("Then a second claim should return the first job", func() {
				job, seen := d.Claim(ctx, "req-1", "job-2")
				So(seen, ShouldBeTrue)
				So(job, ShouldEqual, "job-1")
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("Then a release should allow the ID again", func() {
				d.Release(ctx, "req-1")
				d.Release(ctx, "never-claimed")
				job, seen := d.Claim(ctx, "req-1", "job-3")
				So(seen, ShouldBeFalse)
				So(job, ShouldEqual, "job-3")
			})
		})
	})

	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
		d.Claim(ctx, "a", "1")
		d.Claim(ctx, "b", "2")
		d.Claim(ctx, "c", "3")

		Convey("Then the oldest claim should be evicted", func() {
			So(d.Size(), ShouldEqual, 2)
			_, seen := d.Claim(ctx, "a", "4")
			So(seen, ShouldBeFalse)
			_, seen = d.Claim(ctx, "c", "5")
			So(seen, ShouldBeTrue)
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.Claim(ctx, fmt.Sprintf("r-%d", i), "j")
		}

		Convey("Then nothing should be evicted", func() {
			So(d.Size(), ShouldEqual, 1000)
		})
	})

	Convey("Given concurrent claims of one ID", t, func() {
		d := dedupe.NewInMemoryDeduper()
		var fresh atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, seen := d.Claim(ctx, "same", fmt.Sprintf("job-%d", i)); !seen {
					fresh.Add(1)
				}
			}(i)
		}
		wg.Wait()

		Convey("Then exactly one claim should win", func() {
			So(fresh.Load(), ShouldEqual, 1)
		})
	})
}
