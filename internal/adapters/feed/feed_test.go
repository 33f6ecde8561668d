package feed_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/courtside/internal/adapters/feed"
	"github.com/okian/courtside/internal/adapters/repository"
)

const samplePayload = `{
  "meta": {"version": 1},
  "game": {
    "gameId": "0022000180",
    "actions": [
      {"actionNumber": 1, "actionType": "jumpball", "teamId": 1610612744, "playerNameI": "K. Looney",
       "jumpBallWonPlayerName": "Looney", "jumpBallLostPlayerName": "Ayton"},
      {"actionNumber": 2, "actionType": "2pt", "teamId": 1610612744, "playerNameI": "S. Curry",
       "pointsTotal": 2, "assistPlayerNameInitial": "D. Green"},
      {"actionNumber": 3, "actionType": "period"}
    ]
  }
}`

type countingFetcher struct {
	calls   atomic.Int32
	payload []byte
	err     error
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (f *countingFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		<-f.release
	}
	return f.payload, f.err
}

func TestDecode(t *testing.T) {
	Convey("Given raw feed payloads", t, func() {
		Convey("When the payload is a valid feed", func() {
			events, err := feed.Decode([]byte(samplePayload))

			Convey("Then all actions should decode in order", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(events[0].SequenceNumber, ShouldEqual, 1)
				So(*events[1].PrimaryParticipant, ShouldEqual, "S. Curry")
				So(*events[1].AssistParticipant, ShouldEqual, "D. Green")
				So(events[2].TeamID, ShouldBeNil)
			})
		})

		Convey("When the actions array is empty", func() {
			events, err := feed.Decode([]byte(`{"game":{"actions":[]}}`))

			Convey("Then it should return an empty sequence", func() {
				So(err, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When the game object is missing", func() {
			_, err := feed.Decode([]byte(`{"meta":{}}`))

			Convey("Then it should return ErrEmptyFeed", func() {
				So(errors.Is(err, feed.ErrEmptyFeed), ShouldBeTrue)
			})
		})

		Convey("When the actions array is missing", func() {
			_, err := feed.Decode([]byte(`{"game":{"gameId":"1"}}`))

			Convey("Then it should return ErrEmptyFeed", func() {
				So(errors.Is(err, feed.ErrEmptyFeed), ShouldBeTrue)
			})
		})

		Convey("When the payload is not JSON", func() {
			_, err := feed.Decode([]byte(`<html>`))

			Convey("Then it should return ErrMalformedFeed", func() {
				So(errors.Is(err, feed.ErrMalformedFeed), ShouldBeTrue)
			})
		})
	})
}

func TestHTTPFetcher(t *testing.T) {
	Convey("Given an upstream feed server", t, func() {
		var gotPath string
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(status)
			_, _ = w.Write([]byte(samplePayload))
		}))
		defer srv.Close()

		fetcher := feed.NewHTTPFetcher(srv.URL+"/playbyplay_%s.json", feed.WithTimeout(time.Second))

		Convey("When the upstream answers 200", func() {
			payload, err := fetcher.Fetch(context.Background(), "0022000180")

			Convey("Then the body should be returned and the game id substituted", func() {
				So(err, ShouldBeNil)
				So(string(payload), ShouldEqual, samplePayload)
				So(gotPath, ShouldEqual, "/playbyplay_0022000180.json")
			})
		})

		Convey("When the upstream answers 403", func() {
			status = http.StatusForbidden
			_, err := fetcher.Fetch(context.Background(), "0022000180")

			Convey("Then it should return ErrFetch", func() {
				So(errors.Is(err, feed.ErrFetch), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "403")
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := fetcher.Fetch(ctx, "0022000180")

			Convey("Then it should return ErrFetch", func() {
				So(errors.Is(err, feed.ErrFetch), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unreachable upstream", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		fetcher := feed.NewHTTPFetcher(url + "/%s")
		_, err := fetcher.Fetch(context.Background(), "1")

		Convey("Then the transport error should be ErrFetch", func() {
			So(errors.Is(err, feed.ErrFetch), ShouldBeTrue)
		})
	})
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a client without a cache", t, func() {
		fetcher := &countingFetcher{payload: []byte(samplePayload)}
		client := feed.NewClient(fetcher)

		Convey("When events are requested twice", func() {
			first, err1 := client.Events(ctx, "0022000180")
			second, err2 := client.Events(ctx, "0022000180")

			Convey("Then each call should reach the upstream", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldHaveLength, 3)
				So(second, ShouldHaveLength, 3)
				So(fetcher.calls.Load(), ShouldEqual, 2)
			})
		})

		Convey("When the upstream fails", func() {
			fetcher.err = feed.ErrFetch
			_, err := client.Events(ctx, "0022000180")

			Convey("Then the error should propagate", func() {
				So(errors.Is(err, feed.ErrFetch), ShouldBeTrue)
			})
		})

		Convey("When the upstream returns a malformed feed", func() {
			fetcher.payload = []byte(`{"game":`)
			_, err := client.Events(ctx, "0022000180")

			Convey("Then ErrMalformedFeed should propagate", func() {
				So(errors.Is(err, feed.ErrMalformedFeed), ShouldBeTrue)
			})
		})
	})

	Convey("Given concurrent requests for the same game", t, func() {
		fetcher := &countingFetcher{
			payload: []byte(samplePayload),
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		client := feed.NewClient(fetcher)

		const callers = 8
		var wg sync.WaitGroup
		results := make([]int, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				events, err := client.Events(ctx, "0022000180")
				if err == nil {
					results[i] = len(events)
				}
			}(i)
		}

		<-fetcher.started
		time.Sleep(50 * time.Millisecond)
		close(fetcher.release)
		wg.Wait()

		Convey("Then a single upstream fetch should serve every caller", func() {
			So(fetcher.calls.Load(), ShouldEqual, 1)
			for _, n := range results {
				So(n, ShouldEqual, 3)
			}
		})
	})

	Convey("Given a slow upstream shared by two callers", t, func() {
		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			once.Do(func() { close(started) })
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
			_, _ = w.Write([]byte(samplePayload))
		}))
		defer srv.Close()

		fetcher := feed.NewHTTPFetcher(srv.URL+"/playbyplay_%s.json", feed.WithHTTPClient(srv.Client()))
		client := feed.NewClient(fetcher)

		Convey("When the first caller cancels while the fetch is in flight", func() {
			ctxA, cancelA := context.WithCancel(context.Background())
			defer cancelA()

			errA := make(chan error, 1)
			go func() {
				_, err := client.Events(ctxA, "0022000180")
				errA <- err
			}()
			<-started

			type result struct {
				n   int
				err error
			}
			resB := make(chan result, 1)
			go func() {
				events, err := client.Events(context.Background(), "0022000180")
				resB <- result{n: len(events), err: err}
			}()
			time.Sleep(50 * time.Millisecond)

			cancelA()
			gotA := <-errA
			close(release)
			gotB := <-resB

			Convey("Then only the cancelled caller should fail", func() {
				So(errors.Is(gotA, context.Canceled), ShouldBeTrue)
				So(gotB.err, ShouldBeNil)
				So(gotB.n, ShouldEqual, 3)
				So(hits.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the upstream outlives the flight timeout", func() {
			client := feed.NewClient(fetcher, feed.WithFlightTimeout(50*time.Millisecond))
			_, err := client.Events(context.Background(), "0022000180")
			close(release)

			Convey("Then the shared load should give up with ErrFetch", func() {
				So(errors.Is(err, feed.ErrFetch), ShouldBeTrue)
			})
		})
	})

	Convey("Given a client with a Redis cache", t, func() {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer func() { _ = rdb.Close() }()

		store := repository.NewRedisStore(rdb)
		fetcher := &countingFetcher{payload: []byte(samplePayload)}
		client := feed.NewClient(fetcher, feed.WithStore(store, time.Minute))

		Convey("When events are requested twice", func() {
			_, err1 := client.Events(ctx, "0022000180")
			events, err2 := client.Events(ctx, "0022000180")

			Convey("Then the second call should be served from the cache", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(fetcher.calls.Load(), ShouldEqual, 1)
				So(mr.Exists("courtside:feed:0022000180"), ShouldBeTrue)
			})
		})

		Convey("When the cached entry is corrupt", func() {
			So(mr.Set("courtside:feed:0022000180", "not json"), ShouldBeNil)
			events, err := client.Events(ctx, "0022000180")

			Convey("Then the client should refetch and overwrite it", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(fetcher.calls.Load(), ShouldEqual, 1)
				cached, _ := mr.Get("courtside:feed:0022000180")
				So(cached, ShouldEqual, samplePayload)
			})
		})

		Convey("When the cache server is down", func() {
			mr.Close()
			events, err := client.Events(ctx, "0022000180")

			Convey("Then the client should bypass the cache", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 3)
				So(fetcher.calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When the upstream payload is malformed", func() {
			fetcher.payload = []byte(`[]`)
			_, err := client.Events(ctx, "0022000180")

			Convey("Then nothing should be cached", func() {
				So(errors.Is(err, feed.ErrMalformedFeed), ShouldBeTrue)
				So(mr.Exists("courtside:feed:0022000180"), ShouldBeFalse)
			})
		})
	})
}
