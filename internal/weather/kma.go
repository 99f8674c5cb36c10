// Package weather fetches observations and short-term forecasts from the
// KMA (Korea Meteorological Administration) village forecast service for
// the campus grid cell.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/inhagreen/windstep/internal/httputil"
	"github.com/inhagreen/windstep/internal/metrics"
)

const defaultBaseURL = "http://apis.data.go.kr/1360000/VilageFcstInfoService_2.0"

// Grid cell for Yonghyeon 1.4-dong, Michuhol-gu, Incheon, where the campus
// sits.
const (
	DefaultNX = 54
	DefaultNY = 124
)

// Nowcasts publish hourly and forecasts every three hours, so responses can
// be reused well past the usual cache horizon.
const (
	currentMaxAge  = 10 * time.Minute
	forecastMaxAge = 30 * time.Minute
)

// Client calls the KMA forecast service for one grid cell. Responses are
// cached in process; concurrent callers share a single fetch.
type Client struct {
	serviceKey string
	baseURL    string
	nx, ny     int
	client     *http.Client
	now        func() time.Time

	mu         sync.Mutex
	current    *Current
	currentAt  time.Time
	forecast   *Forecast
	forecastAt time.Time
}

// New returns a client for one forecast grid cell. The service key is the
// URL-decoded key issued by data.go.kr; zero grid coordinates select the
// campus cell. KMA publishes on Korea Standard Time, so the clock must read
// the campus timezone; nil falls back to server-local time.
func New(serviceKey string, nx, ny int, now func() time.Time) *Client {
	if nx == 0 {
		nx = DefaultNX
	}
	if ny == 0 {
		ny = DefaultNY
	}
	if now == nil {
		now = time.Now
	}
	return &Client{
		serviceKey: serviceKey,
		baseURL:    defaultBaseURL,
		nx:         nx,
		ny:         ny,
		client:     httputil.NewClient(),
		now:        now,
	}
}

// Current is one ultra-short nowcast observation.
type Current struct {
	BaseDate    string
	BaseTime    string
	Temperature float64 // °C
	Rainfall    float64 // mm over the past hour
	Humidity    float64 // %
	WindSpeed   float64 // m/s
	Precip      string
}

// Forecast is a short-term forecast, hourly out to about three days.
type Forecast struct {
	BaseDate string
	BaseTime string
	Hours    []ForecastHour
}

// ForecastHour is one forecast timestamp. Numeric fields are nil when the
// feed omitted the category for that hour.
type ForecastHour struct {
	Date        string // yyyymmdd
	Time        string // hhmm
	Temperature *float64
	Humidity    *float64
	WindSpeed   *float64
	Sky         string
	Precip      string
	PrecipProb  *int
}

type kmaResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []kmaItem `json:"item"`
			} `json:"items"`
			TotalCount int `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

type kmaItem struct {
	Category  string `json:"category"`
	BaseDate  string `json:"baseDate"`
	BaseTime  string `json:"baseTime"`
	ObsrValue string `json:"obsrValue"`
	FcstDate  string `json:"fcstDate"`
	FcstTime  string `json:"fcstTime"`
	FcstValue string `json:"fcstValue"`
}

// FetchCurrent returns the latest nowcast for the grid cell.
func (c *Client) FetchCurrent(ctx context.Context) (*Current, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.now().Sub(c.currentAt) < currentMaxAge {
		metrics.KMACacheHitsTotal.WithLabelValues("nowcast").Inc()
		return c.current, nil
	}

	baseDate, baseTime := nowcastBase(c.now())
	query := url.Values{}
	query.Set("numOfRows", "10")
	query.Set("base_date", baseDate)
	query.Set("base_time", baseTime)

	data, err := c.fetch(ctx, "getUltraSrtNcst", query)
	if err != nil {
		return nil, err
	}

	cur := parseCurrent(data.Response.Body.Items.Item)
	cur.BaseDate = baseDate
	cur.BaseTime = baseTime

	c.current = cur
	c.currentAt = c.now()
	return cur, nil
}

// FetchForecast returns the newest short-term forecast for the grid cell.
func (c *Client) FetchForecast(ctx context.Context) (*Forecast, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.forecast != nil && c.now().Sub(c.forecastAt) < forecastMaxAge {
		metrics.KMACacheHitsTotal.WithLabelValues("forecast").Inc()
		return c.forecast, nil
	}

	baseDate, baseTime := forecastBase(c.now())
	query := url.Values{}
	query.Set("numOfRows", "1000")
	query.Set("base_date", baseDate)
	query.Set("base_time", baseTime)

	data, err := c.fetch(ctx, "getVilageFcst", query)
	if err != nil {
		return nil, err
	}

	fc := &Forecast{
		BaseDate: baseDate,
		BaseTime: baseTime,
		Hours:    parseForecast(data.Response.Body.Items.Item),
	}

	c.forecast = fc
	c.forecastAt = c.now()
	return fc, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, query url.Values) (*kmaResponse, error) {
	query.Set("serviceKey", c.serviceKey)
	query.Set("pageNo", "1")
	query.Set("dataType", "JSON")
	query.Set("nx", strconv.Itoa(c.nx))
	query.Set("ny", strconv.Itoa(c.ny))

	reqURL := c.baseURL + "/" + endpoint + "?" + query.Encode()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		metrics.KMAAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, err
	}

	var data kmaResponse
	if err := json.Unmarshal(body, &data); err != nil {
		metrics.KMAAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if code := data.Response.Header.ResultCode; code != "00" {
		metrics.KMAAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("kma result %s: %s", code, data.Response.Header.ResultMsg)
	}

	metrics.KMAAPICallsTotal.WithLabelValues(endpoint, "ok").Inc()
	return &data, nil
}

// nowcastBase returns the base date and time for the ultra-short nowcast.
// Each hour's reading publishes about 40 minutes past the hour, so before
// minute 40 the previous hour's reading is the latest available.
func nowcastBase(now time.Time) (date, tm string) {
	if now.Minute() < 40 {
		now = now.Add(-time.Hour)
	}
	return now.Format("20060102"), now.Format("15") + "00"
}

// forecastBase returns the issue date and time of the newest short-term
// forecast. Issues go out every three hours starting at 02:00; before the
// day's first issue the previous evening's 23:00 run is the latest.
func forecastBase(now time.Time) (date, tm string) {
	if now.Hour() < 2 {
		return now.AddDate(0, 0, -1).Format("20060102"), "2300"
	}
	issue := now.Hour() - (now.Hour()-2)%3
	return now.Format("20060102"), fmt.Sprintf("%02d00", issue)
}

func parseCurrent(items []kmaItem) *Current {
	cur := &Current{}
	for _, item := range items {
		switch item.Category {
		case "T1H":
			cur.Temperature = parseFloat(item.ObsrValue)
		case "RN1":
			cur.Rainfall = parseFloat(item.ObsrValue)
		case "REH":
			cur.Humidity = parseFloat(item.ObsrValue)
		case "WSD":
			cur.WindSpeed = parseFloat(item.ObsrValue)
		case "PTY":
			cur.Precip = PrecipType(item.ObsrValue)
		}
	}
	return cur
}

func parseForecast(items []kmaItem) []ForecastHour {
	byTime := make(map[string]*ForecastHour)
	for _, item := range items {
		key := item.FcstDate + item.FcstTime
		hour, ok := byTime[key]
		if !ok {
			hour = &ForecastHour{Date: item.FcstDate, Time: item.FcstTime}
			byTime[key] = hour
		}

		switch item.Category {
		case "TMP":
			v := parseFloat(item.FcstValue)
			hour.Temperature = &v
		case "REH":
			v := parseFloat(item.FcstValue)
			hour.Humidity = &v
		case "WSD":
			v := parseFloat(item.FcstValue)
			hour.WindSpeed = &v
		case "SKY":
			hour.Sky = SkyCondition(item.FcstValue)
		case "PTY":
			hour.Precip = PrecipType(item.FcstValue)
		case "POP":
			v, _ := strconv.Atoi(item.FcstValue)
			hour.PrecipProb = &v
		}
	}

	keys := make([]string, 0, len(byTime))
	for k := range byTime {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hours := make([]ForecastHour, 0, len(keys))
	for _, k := range keys {
		hours = append(hours, *byTime[k])
	}
	return hours
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

var precipTypes = map[string]string{
	"0": "none",
	"1": "rain",
	"2": "rain/snow",
	"3": "snow",
	"4": "shower",
	"5": "raindrops",
	"6": "raindrops and snow",
	"7": "snow flurries",
}

var skyConditions = map[string]string{
	"1": "clear",
	"3": "mostly cloudy",
	"4": "overcast",
}

// PrecipType translates a PTY category code to a readable label.
func PrecipType(code string) string {
	if label, ok := precipTypes[code]; ok {
		return label
	}
	return "unknown"
}

// SkyCondition translates a SKY category code to a readable label.
func SkyCondition(code string) string {
	if label, ok := skyConditions[code]; ok {
		return label
	}
	return "unknown"
}
