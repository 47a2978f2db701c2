package scheduler_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/scheduler"
	"github.com/jobdeck/jobdeck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	logger.Init()
}

type stubRefresher struct {
	mu    sync.Mutex
	calls []string
}

func (r *stubRefresher) Refresh(ctx context.Context, query string, countries []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, query)
	return 1
}

func (r *stubRefresher) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestScheduler(t *testing.T) {
	Convey("Given a scheduler with queries", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		Reset(cancel)

		ref := &stubRefresher{}
		s := scheduler.New(ref, "@every 1h", []string{"software engineer", "nurse"}, []string{"IN", "US"})

		Convey("When started", func() {
			So(s.Start(ctx), ShouldBeNil)
			Reset(s.Stop)

			Convey("Then the initial refresh covers every query", func() {
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if len(ref.seen()) >= 2 {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				So(ref.seen(), ShouldResemble, []string{"software engineer", "nurse"})
			})
		})
	})

	Convey("Given a scheduler with no queries", t, func() {
		ctx := context.Background()
		ref := &stubRefresher{}
		s := scheduler.New(ref, "@every 1h", nil, nil)

		Convey("When started", func() {
			So(s.Start(ctx), ShouldBeNil)
			Reset(s.Stop)

			Convey("Then nothing runs", func() {
				time.Sleep(50 * time.Millisecond)
				So(ref.seen(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a bad cron spec", t, func() {
		ctx := context.Background()
		s := scheduler.New(&stubRefresher{}, "not a spec", []string{"nurse"}, nil)

		Convey("Then start fails", func() {
			So(s.Start(ctx), ShouldNotBeNil)
		})
	})
}
