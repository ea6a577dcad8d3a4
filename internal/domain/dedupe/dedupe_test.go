package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/sheexliies/ViperDraft/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording request ids", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then a new id is not seen and is recorded", func() {
				So(d.SeenAndRecord(ctx, "pick-1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("Then a replayed id is seen", func() {
				d.SeenAndRecord(ctx, "pick-1")
				So(d.SeenAndRecord(ctx, "pick-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording a failed request", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "pick-1")
			d.Unrecord(ctx, "pick-1")
			d.Unrecord(ctx, "missing")

			Convey("Then the id can be used again", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "pick-1"), ShouldBeFalse)
			})
		})

		Convey("When resetting", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.Reset(ctx)

			Convey("Then every id is forgotten", func() {
				So(d.Size(), ShouldEqual, 0)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})
		})

		Convey("When using bounded mode at capacity", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 1; i <= 4; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("pick-%d", i))
			}

			Convey("Then the oldest id is evicted first", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "pick-4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "pick-2"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "pick-1"), ShouldBeFalse)
			})
		})

		Convey("When using unbounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
			for i := 0; i < 500; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("pick-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 500)
				So(d.SeenAndRecord(ctx, "pick-0"), ShouldBeTrue)
			})
		})
	})
}

func TestInMemoryDeduperConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When many goroutines replay the same ids", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						if !d.SeenAndRecord(ctx, fmt.Sprintf("pick-%d", i)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each id is fresh exactly once", func() {
				So(fresh, ShouldEqual, 100)
				So(d.Size(), ShouldEqual, 100)
			})
		})
	})
}
