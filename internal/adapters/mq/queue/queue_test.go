package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/drawdown/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func task(id string) Task {
	return Task{JobID: id, Request: model.Request{Method: model.MethodTheis}}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity 2", t, func() {
		q := NewInMemoryQueue(WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueuing and dequeuing one task", func() {
			So(q.Enqueue(ctx, task("a")), ShouldBeNil)
			So(q.Len(), ShouldEqual, 1)
			got, err := q.Dequeue(ctx)

			Convey("Then the same task should come back stamped", func() {
				So(err, ShouldBeNil)
				So(got.JobID, ShouldEqual, "a")
				So(got.Enqueued.IsZero(), ShouldBeFalse)
				So(q.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the queue has a fixed clock", func() {
			at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			fixed := NewInMemoryQueue(WithCapacity(2), WithClock(func() time.Time { return at }))
			So(fixed.Enqueue(ctx, task("a")), ShouldBeNil)
			got, err := fixed.Dequeue(ctx)

			Convey("Then the task should be stamped from it", func() {
				So(err, ShouldBeNil)
				So(got.Enqueued.Equal(at), ShouldBeTrue)
			})
		})

		Convey("When the queue is full", func() {
			So(q.Enqueue(ctx, task("a")), ShouldBeNil)
			So(q.Enqueue(ctx, task("b")), ShouldBeNil)

			Convey("Then the next enqueue should be rejected without blocking", func() {
				So(errors.Is(q.Enqueue(ctx, task("c")), ErrFull), ShouldBeTrue)
				So(q.Len(), ShouldEqual, 2)
				So(q.Capacity(), ShouldEqual, 2)
			})
		})

		Convey("When closed with a task pending", func() {
			So(q.Enqueue(ctx, task("a")), ShouldBeNil)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then intake should stop but the pending task should drain", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(errors.Is(q.Enqueue(ctx, task("b")), ErrClosed), ShouldBeTrue)
				got, err := q.Dequeue(ctx)
				So(err, ShouldBeNil)
				So(got.JobID, ShouldEqual, "a")
				_, err = q.Dequeue(ctx)
				So(errors.Is(err, ErrClosed), ShouldBeTrue)
			})
		})

		Convey("When dequeuing from an empty queue with a deadline", func() {
			dctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			_, err := q.Dequeue(dctx)

			Convey("Then the context error should be returned", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
			})
		})
	})

	Convey("Given concurrent producers", t, func() {
		q := NewInMemoryQueue(WithCapacity(1000))
		ctx := context.Background()
		var wg sync.WaitGroup
		for p := 0; p < 10; p++ {
			wg.Add(1)
			go func(p int) {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					_ = q.Enqueue(ctx, task(fmt.Sprintf("%d-%d", p, i)))
				}
			}(p)
		}
		wg.Wait()

		Convey("Then every task should be queued", func() {
			So(q.Len(), ShouldEqual, 500)
		})
	})
}
