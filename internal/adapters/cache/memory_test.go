package cache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jobdeck/jobdeck/internal/adapters/cache"
	"github.com/jobdeck/jobdeck/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()

	Convey("Given a memory cache with a controllable clock", t, func() {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		c := cache.NewMemory(
			cache.WithTTL(5*time.Minute),
			cache.WithClock(func() time.Time { return now }),
		)
		defer c.Close()

		Convey("When a value is stored", func() {
			So(c.Set(ctx, "k", []byte("v")), ShouldBeNil)

			Convey("Then it is readable before the TTL", func() {
				val, ok, err := c.Get(ctx, "k")
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(string(val), ShouldEqual, "v")
			})

			Convey("Then it misses after the TTL passes", func() {
				now = now.Add(6 * time.Minute)
				_, ok, err := c.Get(ctx, "k")
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When an unknown key is read", func() {
			_, ok, err := c.Get(ctx, "missing")

			Convey("Then it is a clean miss", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})
		})
	})

	Convey("Given a cache at capacity", t, func() {
		c := cache.NewMemory(cache.WithMaxEntries(3))
		defer c.Close()

		for i := 0; i < 3; i++ {
			So(c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")), ShouldBeNil)
		}

		Convey("When one more entry is stored", func() {
			So(c.Set(ctx, "k3", []byte("v")), ShouldBeNil)

			Convey("Then the oldest insertion is evicted", func() {
				_, ok, _ := c.Get(ctx, "k0")
				So(ok, ShouldBeFalse)

				for _, key := range []string{"k1", "k2", "k3"} {
					_, ok, _ := c.Get(ctx, key)
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When an existing key is overwritten", func() {
			So(c.Set(ctx, "k1", []byte("v2")), ShouldBeNil)

			Convey("Then nothing is evicted", func() {
				for _, key := range []string{"k0", "k1", "k2"} {
					_, ok, _ := c.Get(ctx, key)
					So(ok, ShouldBeTrue)
				}
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given search parameters", t, func() {
		base := types.SearchParams{
			Query:     "React Developer",
			Location:  "Bangalore",
			Countries: []string{"IN", "US"},
			Limit:     10,
		}

		Convey("Then identical parameters derive identical keys", func() {
			So(cache.Key(base), ShouldEqual, cache.Key(base))
		})

		Convey("Then country order does not change the key", func() {
			flipped := base
			flipped.Countries = []string{"US", "IN"}
			So(cache.Key(flipped), ShouldEqual, cache.Key(base))
		})

		Convey("Then query case and padding do not change the key", func() {
			padded := base
			padded.Query = "  react developer "
			So(cache.Key(padded), ShouldEqual, cache.Key(base))
		})

		Convey("Then any semantic difference changes the key", func() {
			other := base
			other.Offset = 10
			So(cache.Key(other), ShouldNotEqual, cache.Key(base))

			other = base
			other.Query = "python developer"
			So(cache.Key(other), ShouldNotEqual, cache.Key(base))
		})
	})
}
