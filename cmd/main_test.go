package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/pkg/logger"
)

const gameFeed = `{"game":{"gameId":"0022000180","actions":[
  {"actionNumber":1,"actionType":"jumpball","teamId":123,"playerNameI":"A. Able","jumpBallWonPlayerName":"Able","jumpBallLostPlayerName":"Baker"},
  {"actionNumber":2,"actionType":"2pt","teamId":123,"playerNameI":"A. Able","pointsTotal":2,"assistPlayerNameInitial":"C. Cole"},
  {"actionNumber":3,"actionType":"rebound","teamId":456,"playerNameI":"B. Baker","reboundTotal":1},
  {"actionNumber":4,"actionType":"3pt","teamId":123,"playerNameI":"C. Cole","pointsTotal":3},
  {"actionNumber":5,"actionType":"foul","teamId":456,"playerNameI":"B. Baker","foulDrawnPlayerName":"Able"},
  {"actionNumber":6,"actionType":"period"}
]}}`

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// upstream serves gameFeed for the configured game and counts hits.
func upstream(hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/playbyplay_0022000180.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(gameFeed))
	}))
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestApplication(t *testing.T) {
	convey.Convey("Given the application wired against a fake upstream", t, func() {
		var hits atomic.Int32
		srv := upstream(&hits)
		defer srv.Close()

		cfg := config.New()
		cfg.FeedURLTemplate = srv.URL + "/playbyplay_%s.json"
		ctx := context.Background()

		handler, svc, cleanup, err := newApplication(ctx, cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		defer cleanup()
		defer svc.Stop()

		convey.Convey("When requesting the roster", func() {
			w := get(handler, "/games/players")

			convey.Convey("Then names should be grouped by team in first-seen order", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var body map[string][]string
				convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
				convey.So(body["123"], convey.ShouldResemble, []string{"A. Able", "C. Cole"})
				convey.So(body["456"], convey.ShouldResemble, []string{"B. Baker"})
			})
		})

		convey.Convey("When requesting a player's actions", func() {
			w := get(handler, "/games/players/a.%20able/actions")

			convey.Convey("Then primary, jump ball and foul-drawn actions should be included", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var body []map[string]string
				convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
				convey.So(body, convey.ShouldResemble, []map[string]string{
					{"actionType": "jumpball"},
					{"actionType": "2pt"},
					{"actionType": "foul"},
				})
			})
		})

		convey.Convey("When requesting the assister's actions", func() {
			w := get(handler, "/games/players/C.%20Cole/actions")

			convey.Convey("Then the assisted play should be relabeled", func() {
				convey.So(w.Body.String(), convey.ShouldEqual, "[{\"actionType\":\"assist\"},{\"actionType\":\"3pt\"}]\n")
			})
		})

		convey.Convey("When requesting an unknown player's actions", func() {
			w := get(handler, "/games/players/Nobody/actions")

			convey.Convey("Then it should return 404", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "Actions for Nobody not found.")
			})
		})

		convey.Convey("When requesting totals", func() {
			w := get(handler, "/games/totals")

			convey.Convey("Then lines should be ranked per team", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				var body map[string][]string
				convey.So(json.Unmarshal(w.Body.Bytes(), &body), convey.ShouldBeNil)
				convey.So(body["123"], convey.ShouldResemble, []string{
					"C. Cole: PTS: 3 | REB: 0 | AST: 1",
					"A. Able: PTS: 2 | REB: 0 | AST: 0",
				})
				convey.So(body["456"], convey.ShouldResemble, []string{"B. Baker: PTS: 0 | REB: 1 | AST: 0"})
			})
		})

		convey.Convey("When requesting the docs, health and stats", func() {
			convey.Convey("Then each should answer 200", func() {
				for _, path := range []string{"/healthz", "/stats", "/metrics", "/openapi.yaml", "/api-docs"} {
					convey.So(get(handler, path).Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})

		convey.Convey("When every query runs without a cache", func() {
			_ = get(handler, "/games/players")
			_ = get(handler, "/games/totals")

			convey.Convey("Then each query should fetch the feed", func() {
				convey.So(hits.Load(), convey.ShouldEqual, 2)
			})
		})
	})

	convey.Convey("Given an upstream for a different game", t, func() {
		var hits atomic.Int32
		srv := upstream(&hits)
		defer srv.Close()

		cfg := config.New()
		cfg.GameID = "0022000999"
		cfg.FeedURLTemplate = srv.URL + "/playbyplay_%s.json"

		handler, svc, cleanup, err := newApplication(context.Background(), cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		defer cleanup()
		defer svc.Stop()

		convey.Convey("Then queries should report missing game data", func() {
			for _, path := range []string{"/games/players", "/games/totals", "/games/players/A.%20Able/actions"} {
				w := get(handler, path)
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, "Game data not found.")
			}
		})
	})
}

func TestApplicationWithRedisCache(t *testing.T) {
	convey.Convey("Given the application with a Redis feed cache", t, func() {
		var hits atomic.Int32
		srv := upstream(&hits)
		defer srv.Close()
		mr := miniredis.RunT(t)

		cfg := config.New()
		cfg.FeedURLTemplate = srv.URL + "/playbyplay_%s.json"
		cfg.CacheBackend = config.CacheRedis
		cfg.RedisURL = "redis://" + mr.Addr() + "/0"

		handler, svc, cleanup, err := newApplication(context.Background(), cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		defer cleanup()
		defer svc.Stop()

		convey.Convey("When the same data is queried repeatedly", func() {
			first := get(handler, "/games/totals")
			second := get(handler, "/games/totals")
			third := get(handler, "/games/players")

			convey.Convey("Then the upstream should be hit once", func() {
				convey.So(first.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(second.Body.String(), convey.ShouldEqual, first.Body.String())
				convey.So(third.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(hits.Load(), convey.ShouldEqual, 1)
				convey.So(mr.Exists("courtside:feed:0022000180"), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When stats are requested", func() {
			w := get(handler, "/stats")

			convey.Convey("Then the cache backend should be reported", func() {
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"cacheBackend":"redis"`)
			})
		})
	})

	convey.Convey("Given an invalid redis url", t, func() {
		cfg := config.New()
		cfg.CacheBackend = config.CacheRedis
		cfg.RedisURL = "://nope"

		_, _, _, err := newApplication(context.Background(), cfg, logger.Get())

		convey.Convey("Then wiring should fail with an invalid config error", func() {
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a cancelled context", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		convey.Convey("Then run should shut down cleanly", func() {
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Get()) }()

			select {
			case err := <-done:
				convey.So(err, convey.ShouldBeNil)
			case <-time.After(10 * time.Second):
				convey.So("run did not return", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop should stop with its context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			cancel()

			select {
			case <-done:
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(5 * time.Second):
				convey.So("updater did not stop", convey.ShouldBeEmpty)
			}
		})
	})
}
