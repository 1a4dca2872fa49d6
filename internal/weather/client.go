package weather

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/juju/errors"
)

// Client is the remote weather collaborator. Transport errors, timeouts
// and malformed payloads all collapse into one error kind; the caller
// only cares that the fetch did not produce a snapshot.
type Client interface {
	FetchCurrent() (Snapshot, error)
	FetchForecast(count int) ([]ForecastEntry, error)
}

type Config struct {
	Enable             bool    `hcl:"enable"`
	BaseURL            string  `hcl:"base_url"`
	APIKey             string  `hcl:"api_key"`
	Latitude           float64 `hcl:"latitude"`
	Longitude          float64 `hcl:"longitude"`
	RefreshSec         int     `hcl:"refresh_sec"`
	ForecastRefreshSec int     `hcl:"forecast_refresh_sec"`
	TimeoutSec         int     `hcl:"timeout_sec"`
}

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// HTTPClient speaks the OpenWeatherMap current/forecast API.
type HTTPClient struct {
	conf Config
	http *http.Client
}

var _ Client = new(HTTPClient)

func NewHTTPClient(conf Config) *HTTPClient {
	if conf.BaseURL == "" {
		conf.BaseURL = defaultBaseURL
	}
	timeout := 5 * time.Second
	if conf.TimeoutSec > 0 {
		timeout = time.Duration(conf.TimeoutSec) * time.Second
	}
	return &HTTPClient{
		conf: conf,
		http: &http.Client{Timeout: timeout},
	}
}

type owmWeather struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Dt int64 `json:"dt"`
}

type owmForecast struct {
	List []struct {
		owmWeather
		Pop  float64 `json:"pop"`
		Rain struct {
			ThreeHours float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

func (self *HTTPClient) FetchCurrent() (Snapshot, error) {
	var payload owmWeather
	if err := self.get("/weather", nil, &payload); err != nil {
		return Snapshot{}, errors.Trace(err)
	}
	return Snapshot{
		Description: firstDescription(payload),
		Temperature: payload.Main.Temp,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
	}, nil
}

func (self *HTTPClient) FetchForecast(count int) ([]ForecastEntry, error) {
	var payload owmForecast
	q := url.Values{"cnt": {fmt.Sprint(count)}}
	if err := self.get("/forecast", q, &payload); err != nil {
		return nil, errors.Trace(err)
	}
	if len(payload.List) == 0 {
		return nil, errors.Errorf("weather forecast: empty list")
	}
	entries := make([]ForecastEntry, 0, len(payload.List))
	for _, item := range payload.List {
		entries = append(entries, ForecastEntry{
			Snapshot: Snapshot{
				Description: firstDescription(item.owmWeather),
				Temperature: item.Main.Temp,
				Humidity:    item.Main.Humidity,
				Pressure:    item.Main.Pressure,
			},
			PrecipitationProbability: item.Pop,
			PrecipitationAmount:      item.Rain.ThreeHours,
			ForecastFor:              item.Dt,
		})
	}
	return entries, nil
}

func (self *HTTPClient) get(path string, q url.Values, out interface{}) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("lat", fmt.Sprint(self.conf.Latitude))
	q.Set("lon", fmt.Sprint(self.conf.Longitude))
	q.Set("units", "metric")
	q.Set("appid", self.conf.APIKey)
	u := self.conf.BaseURL + path + "?" + q.Encode()

	resp, err := self.http.Get(u)
	if err != nil {
		return errors.Annotatef(err, "weather GET %s", path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("weather GET %s status=%d", path, resp.StatusCode)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Annotatef(err, "weather GET %s payload", path)
	}
	return nil
}

func firstDescription(w owmWeather) string {
	if len(w.Weather) == 0 {
		return ""
	}
	return w.Weather[0].Description
}
