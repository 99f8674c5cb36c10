package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inhagreen/windstep/internal/metrics"
	"github.com/inhagreen/windstep/internal/power"
)

const apiVersion = "1.0.0"

// observationSite labels where the KMA grid cell for the campus sits.
const observationSite = "Yonghyeon 1.4-dong, Michuhol-gu, Incheon"

// Seasonal defaults stand in for live readings when the weather service is
// unreachable or not configured.
const (
	fallbackWindSpeed   = 3.0
	fallbackTemperature = 20.0
	fallbackHumidity    = 60.0
)

// Standalone monthly projections assume a semester in progress.
const (
	weekdayTraffic = 1.0
	weekendTraffic = 0.4
)

// Monthly climate normals for the campus, January through December: average
// wind speed and daily temperature range.
var (
	annualWindSpeeds = []float64{3.5, 3.8, 4.2, 4.0, 3.7, 3.2, 3.0, 3.3, 3.6, 3.9, 4.1, 3.7}
	annualTempRanges = []power.TempRange{
		{Min: -5, Max: 5}, {Min: -3, Max: 8}, {Min: 2, Max: 12}, {Min: 8, Max: 18},
		{Min: 13, Max: 23}, {Min: 18, Max: 28}, {Min: 22, Max: 32}, {Min: 23, Max: 33},
		{Min: 18, Max: 28}, {Min: 12, Max: 22}, {Min: 5, Max: 15}, {Min: -2, Max: 8},
	}
)

type infoResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Locations []string          `json:"locations"`
	Endpoints map[string]string `json:"endpoints"`
}

func (s *Server) handlePowerInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Name:      "power prediction API",
		Version:   apiVersion,
		Locations: s.calc.Table().IDs(),
		Endpoints: map[string]string{
			"predict":  "POST /api/power/predict",
			"daily":    "GET /api/power/daily/{location}",
			"weekly":   "GET /api/power/weekly/{location}",
			"monthly":  "GET /api/power/monthly/{location}",
			"annual":   "GET /api/power/annual/{location}",
			"realtime": "GET /api/power/realtime/{location}",
			"forecast": "GET /api/power/forecast/{location}",
		},
	})
}

// predictRequest is the POST body for one-shot projections. Temperature,
// humidity and hour are accepted for client compatibility; the projection
// itself uses wind speed and crowd size only.
type predictRequest struct {
	Location    string   `json:"location"`
	WindSpeed   float64  `json:"wind_speed"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Hour        *int     `json:"hour"`
	PeopleCount *float64 `json:"people_count"`
}

type predictResponse struct {
	HourlyView
	PredictionID   string `json:"prediction_id"`
	PredictionTime string `json:"prediction_time"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.ProjectionDuration.WithLabelValues("hourly"))
	defer timer.ObserveDuration()

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if !s.checkLocation(w, req.Location) {
		return
	}

	res, err := s.calc.Total(req.Location, req.WindSpeed, req.PeopleCount, 1)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		HourlyView:     hourlyView(res),
		PredictionID:   uuid.NewString(),
		PredictionTime: s.calc.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.ProjectionDuration.WithLabelValues("daily"))
	defer timer.ObserveDuration()

	location := mux.Vars(r)["location"]
	if !s.checkLocation(w, location) {
		return
	}
	avg, ok := floatQuery(w, r, "avg_wind_speed")
	if !ok {
		return
	}

	profile, _ := s.calc.Table().Get(location)
	res, err := s.calc.Daily(location, power.DiurnalWind(avg), power.CampusCrowd(profile.Piezo.AvgHourlyPeople))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	view := dailyView(res)
	for i := range view.HourlyResults {
		h := i
		view.HourlyResults[i].Hour = &h
		view.HourlyResults[i].FormattedHour = fmt.Sprintf("%02d:00", h)
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleWeekly(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.ProjectionDuration.WithLabelValues("weekly"))
	defer timer.ObserveDuration()

	location := mux.Vars(r)["location"]
	if !s.checkLocation(w, location) {
		return
	}
	avg, ok := floatQuery(w, r, "avg_wind_speed")
	if !ok {
		return
	}

	res, err := s.calc.Weekly(location, power.WeekWindCurve(avg), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, weeklyView(res))
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.ProjectionDuration.WithLabelValues("monthly"))
	defer timer.ObserveDuration()

	location := mux.Vars(r)["location"]
	if !s.checkLocation(w, location) {
		return
	}
	avg, ok := floatQuery(w, r, "avg_wind_speed")
	if !ok {
		return
	}

	minTemp, err := optionalFloatQuery(r, "min_temp")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	maxTemp, err := optionalFloatQuery(r, "max_temp")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var tempRange *power.TempRange
	if minTemp != nil && maxTemp != nil {
		tempRange = &power.TempRange{Min: *minTemp, Max: *maxTemp}
	}

	res, err := s.calc.Monthly(location, avg, tempRange, weekdayTraffic, weekendTraffic)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, monthlyView(res))
}

func (s *Server) handleAnnual(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.ProjectionDuration.WithLabelValues("annual"))
	defer timer.ObserveDuration()

	location := mux.Vars(r)["location"]
	if !s.checkLocation(w, location) {
		return
	}

	res, err := s.calc.Annual(location, annualWindSpeeds, annualTempRanges)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, annualView(res))
}

type weatherInfo struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

type realtimeResponse struct {
	HourlyView
	Weather        weatherInfo `json:"weather"`
	CurrentHour    int         `json:"current_hour"`
	PredictionID   string      `json:"prediction_id"`
	PredictionTime string      `json:"prediction_time"`
	APIError       string      `json:"api_error,omitempty"`
}

// handleRealtime projects the current hour from live weather. Weather
// trouble degrades to seasonal defaults rather than failing the request;
// api_error tells the client which happened.
func (s *Server) handleRealtime(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.ProjectionDuration.WithLabelValues("realtime"))
	defer timer.ObserveDuration()

	location := mux.Vars(r)["location"]
	if !s.checkLocation(w, location) {
		return
	}

	now := s.calc.Now()
	hour := now.Hour()

	info := weatherInfo{Temperature: fallbackTemperature, Humidity: fallbackHumidity, WindSpeed: fallbackWindSpeed}
	apiErr := ""
	if s.weather == nil {
		apiErr = "weather service not configured"
	} else if cur, err := s.weather.FetchCurrent(r.Context()); err != nil {
		log.Printf("realtime: fetch current weather: %v", err)
		apiErr = "weather lookup failed: " + err.Error()
	} else {
		info = weatherInfo{Temperature: cur.Temperature, Humidity: cur.Humidity, WindSpeed: cur.WindSpeed}
	}

	profile, _ := s.calc.Table().Get(location)
	people := power.CrowdAt(profile.Piezo.AvgHourlyPeople, hour)

	res, err := s.calc.Total(location, info.WindSpeed, &people, 1)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, realtimeResponse{
		HourlyView:     hourlyView(res),
		Weather:        info,
		CurrentHour:    hour,
		PredictionID:   uuid.NewString(),
		PredictionTime: now.Format(time.RFC3339),
		APIError:       apiErr,
	})
}

type forecastPowerHour struct {
	HourlyView
	Date string `json:"date"`
	Time string `json:"time"`
}

type forecastPowerResponse struct {
	Location string              `json:"location"`
	BaseDate string              `json:"base_date"`
	BaseTime string              `json:"base_time"`
	Hours    []forecastPowerHour `json:"hours"`
}

// handleForecastPower projects each short-forecast slot that carries a wind
// speed. Slots without one are skipped rather than guessed.
func (s *Server) handleForecastPower(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.ProjectionDuration.WithLabelValues("forecast"))
	defer timer.ObserveDuration()

	location := mux.Vars(r)["location"]
	if !s.checkLocation(w, location) {
		return
	}
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather service not configured")
		return
	}
	fc, err := s.weather.FetchForecast(r.Context())
	if err != nil {
		log.Printf("forecast power: fetch forecast: %v", err)
		writeError(w, http.StatusBadGateway, "forecast lookup failed: "+err.Error())
		return
	}

	profile, _ := s.calc.Table().Get(location)
	resp := forecastPowerResponse{
		Location: location,
		BaseDate: fc.BaseDate,
		BaseTime: fc.BaseTime,
		Hours:    make([]forecastPowerHour, 0, len(fc.Hours)),
	}
	for _, h := range fc.Hours {
		if h.WindSpeed == nil {
			continue
		}
		people := profile.Piezo.AvgHourlyPeople
		if hhmm, err := strconv.Atoi(h.Time); err == nil {
			people = power.CrowdAt(profile.Piezo.AvgHourlyPeople, hhmm/100)
		}
		res, err := s.calc.Total(location, *h.WindSpeed, &people, 1)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Hours = append(resp.Hours, forecastPowerHour{
			HourlyView: hourlyView(res),
			Date:       h.Date,
			Time:       h.Time,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type currentConditions struct {
	Temperature float64 `json:"temperature"`
	Rainfall    float64 `json:"rainfall"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Precip      string  `json:"precipitationType"`
}

type currentWeatherResponse struct {
	Location string            `json:"location"`
	Date     string            `json:"date"`
	Time     string            `json:"time"`
	Weather  currentConditions `json:"weather"`
}

func (s *Server) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather service not configured")
		return
	}
	cur, err := s.weather.FetchCurrent(r.Context())
	if err != nil {
		log.Printf("weather: fetch current: %v", err)
		writeError(w, http.StatusBadGateway, "weather lookup failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, currentWeatherResponse{
		Location: observationSite,
		Date:     cur.BaseDate,
		Time:     cur.BaseTime,
		Weather: currentConditions{
			Temperature: cur.Temperature,
			Rainfall:    cur.Rainfall,
			Humidity:    cur.Humidity,
			WindSpeed:   cur.WindSpeed,
			Precip:      cur.Precip,
		},
	})
}

type forecastConditions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"windSpeed,omitempty"`
	Sky         string   `json:"skyCondition,omitempty"`
	Precip      string   `json:"precipitationType,omitempty"`
	PrecipProb  *int     `json:"precipitationProbability,omitempty"`
}

type forecastEntry struct {
	Date    string             `json:"date"`
	Time    string             `json:"time"`
	Weather forecastConditions `json:"weather"`
}

type forecastResponse struct {
	Location  string          `json:"location"`
	BaseDate  string          `json:"baseDate"`
	BaseTime  string          `json:"baseTime"`
	Forecasts []forecastEntry `json:"forecasts"`
}

func (s *Server) handleWeatherForecast(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather service not configured")
		return
	}
	fc, err := s.weather.FetchForecast(r.Context())
	if err != nil {
		log.Printf("weather: fetch forecast: %v", err)
		writeError(w, http.StatusBadGateway, "forecast lookup failed: "+err.Error())
		return
	}

	resp := forecastResponse{
		Location:  observationSite,
		BaseDate:  fc.BaseDate,
		BaseTime:  fc.BaseTime,
		Forecasts: make([]forecastEntry, 0, len(fc.Hours)),
	}
	for _, h := range fc.Hours {
		resp.Forecasts = append(resp.Forecasts, forecastEntry{
			Date: h.Date,
			Time: h.Time,
			Weather: forecastConditions{
				Temperature: h.Temperature,
				Humidity:    h.Humidity,
				WindSpeed:   h.WindSpeed,
				Sky:         h.Sky,
				Precip:      h.Precip,
				PrecipProb:  h.PrecipProb,
			},
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Locations int    `json:"locations"`
	Weather   string `json:"weather"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	weatherStatus := "disabled"
	if s.weather != nil {
		weatherStatus = "configured"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   apiVersion,
		Locations: s.calc.Table().Len(),
		Weather:   weatherStatus,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// checkLocation rejects site ids missing from the profile table.
func (s *Server) checkLocation(w http.ResponseWriter, location string) bool {
	if _, ok := s.calc.Table().Get(location); !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"unsupported location: %s (supported: %s)",
			location, strings.Join(s.calc.Table().IDs(), ", ")))
		return false
	}
	return true
}

func floatQuery(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter: "+name)
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid query parameter %s: %q", name, raw))
		return 0, false
	}
	return v, true
}

func optionalFloatQuery(r *http.Request, name string) (*float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid query parameter %s: %q", name, raw)
	}
	return &v, nil
}
