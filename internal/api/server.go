package api

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inhagreen/windstep/internal/metrics"
	"github.com/inhagreen/windstep/internal/power"
	"github.com/inhagreen/windstep/internal/weather"
)

// WeatherSource supplies live observations and short-term forecasts for the
// realtime and weather routes. *weather.Client satisfies it; a nil source
// disables those routes gracefully.
type WeatherSource interface {
	FetchCurrent(ctx context.Context) (*weather.Current, error)
	FetchForecast(ctx context.Context) (*weather.Forecast, error)
}

type Server struct {
	calc    *power.Calculator
	weather WeatherSource
	port    string
}

func NewServer(calc *power.Calculator, weather WeatherSource, port string) *Server {
	return &Server{
		calc:    calc,
		weather: weather,
		port:    port,
	}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(instrument)
	r.HandleFunc("/api/power", s.handlePowerInfo).Methods(http.MethodGet)
	r.HandleFunc("/api/power/", s.handlePowerInfo).Methods(http.MethodGet)
	r.HandleFunc("/api/power/predict", s.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/api/power/daily/{location}", s.handleDaily).Methods(http.MethodGet)
	r.HandleFunc("/api/power/weekly/{location}", s.handleWeekly).Methods(http.MethodGet)
	r.HandleFunc("/api/power/monthly/{location}", s.handleMonthly).Methods(http.MethodGet)
	r.HandleFunc("/api/power/annual/{location}", s.handleAnnual).Methods(http.MethodGet)
	r.HandleFunc("/api/power/realtime/{location}", s.handleRealtime).Methods(http.MethodGet)
	r.HandleFunc("/api/power/forecast/{location}", s.handleForecastPower).Methods(http.MethodGet)
	r.HandleFunc("/api/weather/current", s.handleWeatherCurrent).Methods(http.MethodGet)
	r.HandleFunc("/api/weather/forecast/short", s.handleWeatherForecast).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// statusRecorder captures the response status for the request counter.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so streaming handlers keep working
// behind the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// instrument counts requests per route template and status code.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}
