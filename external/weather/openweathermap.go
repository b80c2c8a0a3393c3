package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/biter777/countries"
	"github.com/klangrad/klangrad/internal/weather"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var ErrNoAPIKey = errors.New("weather: no api key configured")

type OpenWeatherMapService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenWeatherMapService(apiKey string) *OpenWeatherMapService {
	return &OpenWeatherMapService{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}
}

type currentWeatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

func (s *OpenWeatherMapService) Lookup(ctx context.Context, lat, lon float64) (weather.Report, error) {
	if s.apiKey == "" {
		return weather.Report{}, ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return weather.Report{}, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return weather.Report{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return weather.Report{}, fmt.Errorf("weather api returned status %d", resp.StatusCode)
	}

	var body currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return weather.Report{}, fmt.Errorf("failed to decode weather response: %w", err)
	}

	country := countryName(body.Sys.Country)
	description := ""
	if len(body.Weather) > 0 {
		description = body.Weather[0].Description
	}
	sentence := fmt.Sprintf(
		"I am in %s right now. It is %.1f°C and we have %s. The wind speed is %.1fm/s going %s.",
		country, body.Main.Temp, description, body.Wind.Speed, compassDirection(body.Wind.Deg))
	return weather.Report{Country: country, Sentence: sentence}, nil
}

// countryName resolves an ISO 3166-1 alpha-2 code to the country's English
// name, falling back to the raw code when the lookup misses.
func countryName(code string) string {
	c := countries.ByName(code)
	if c == countries.Unknown {
		return code
	}
	return c.String()
}

func compassDirection(deg float64) string {
	names := []string{"north", "north-east", "east", "south-east", "south", "south-west", "west", "north-west"}
	for deg < 0 {
		deg += 360
	}
	idx := int((deg+22.5)/45) % len(names)
	return names[idx]
}
