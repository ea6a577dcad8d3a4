package simulate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sheexliies/ViperDraft/internal/adapters/http/api"
	service "github.com/sheexliies/ViperDraft/internal/app"
	"github.com/sheexliies/ViperDraft/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRunRemote(t *testing.T) {
	_ = logger.Init()

	Convey("Given a running draft server", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		svc := service.New()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		cfg := easyConfig(t)
		cfg.Runs = 3
		cfg.BaseURL = srv.URL + "/"
		cfg.Timeout = 5 * time.Second

		report, err := Run(ctx, cfg)
		So(err, ShouldBeNil)

		Convey("Then every remote draft completes inside the band", func() {
			So(report.Results, ShouldHaveLength, 3)
			So(report.Stats.Succeeded, ShouldEqual, 3)
			for _, r := range report.Results {
				So(r.Attempts, ShouldEqual, 1)
				So(r.Scores, ShouldHaveLength, 2)
			}
		})

		Convey("Then the server holds the last draft", func() {
			st := svc.State(ctx)
			So(st.Status.Complete, ShouldBeTrue)
			So(st.Status.Attempts, ShouldEqual, 1)
			So(st.Candidates, ShouldEqual, 4)
		})
	})

	Convey("Given a server that is down", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		cfg := easyConfig(t)
		cfg.BaseURL = srv.URL
		cfg.Timeout = time.Second

		_, err := Run(context.Background(), cfg)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "health check failed")
	})
}

func TestHTTPClient(t *testing.T) {
	_ = logger.Init()

	Convey("Given a server that rate limits the first request", t, func() {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"imported":4}`))
		}))
		defer srv.Close()

		client := NewHTTPClient(srv.URL, time.Second)
		var out struct {
			Imported int `json:"imported"`
		}
		err := client.Do(context.Background(), http.MethodPost, "/candidates", []int{1}, &out, http.StatusOK)

		Convey("Then the request is retried", func() {
			So(err, ShouldBeNil)
			So(out.Imported, ShouldEqual, 4)
			So(atomic.LoadInt32(&calls), ShouldEqual, 2)
		})
	})

	Convey("Given a server answering with the wrong status", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"code":"busy"}`, http.StatusConflict)
		}))
		defer srv.Close()

		err := NewHTTPClient(srv.URL, time.Second).Do(context.Background(), http.MethodPost, "/draft/solve", nil, nil, http.StatusAccepted)
		So(errors.Is(err, ErrUnexpectedStatus), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "409")
		So(err.Error(), ShouldContainSubstring, "busy")
	})
}
