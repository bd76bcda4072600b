package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/yungbote/stride-backend/internal/logger"
	"github.com/yungbote/stride-backend/internal/utils"
)

// WeatherSnapshot is ephemeral scoring context; it is never persisted.
type WeatherSnapshot struct {
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature_c"`
	WindSpeedKmh float64 `json:"wind_speed_kmh"`
}

type WeatherService interface {
	Current(ctx context.Context, lat, lon float64) (*WeatherSnapshot, error)
	Historical(ctx context.Context, lat, lon float64, at time.Time) (*WeatherSnapshot, error)
}

type weatherService struct {
	log         *logger.Logger
	forecastURL string
	archiveURL  string
	httpClient  *http.Client
}

func NewWeatherService(log *logger.Logger) WeatherService {
	serviceLog := log.With("service", "WeatherService")
	forecastURL := utils.GetEnv("OPEN_METEO_FORECAST_URL", "https://api.open-meteo.com/v1/forecast", log)
	archiveURL := utils.GetEnv("OPEN_METEO_ARCHIVE_URL", "https://archive-api.open-meteo.com/v1/archive", log)
	return &weatherService{
		log:         serviceLog,
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type openMeteoCurrentResponse struct {
	Current struct {
		Temperature2m float64 `json:"temperature_2m"`
		WindSpeed10m  float64 `json:"wind_speed_10m"`
		WeatherCode   int     `json:"weather_code"`
	} `json:"current"`
}

type openMeteoHourlyResponse struct {
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature2m []float64 `json:"temperature_2m"`
		WindSpeed10m  []float64 `json:"wind_speed_10m"`
		WeatherCode   []int     `json:"weather_code"`
	} `json:"hourly"`
}

func (s *weatherService) Current(ctx context.Context, lat, lon float64) (*WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", "temperature_2m,wind_speed_10m,weather_code")

	var resp openMeteoCurrentResponse
	if err := s.get(ctx, s.forecastURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &WeatherSnapshot{
		Description:  describeWeatherCode(resp.Current.WeatherCode),
		TemperatureC: resp.Current.Temperature2m,
		WindSpeedKmh: resp.Current.WindSpeed10m,
	}, nil
}

// Historical returns conditions for the hour containing at. Open-Meteo's
// archive lags a few days behind; recent timestamps fall back to the
// forecast endpoint's past_days window.
func (s *weatherService) Historical(ctx context.Context, lat, lon float64, at time.Time) (*WeatherSnapshot, error) {
	at = at.UTC()
	day := at.Format("2006-01-02")

	base := s.archiveURL
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("hourly", "temperature_2m,wind_speed_10m,weather_code")
	if time.Since(at) < 5*24*time.Hour {
		base = s.forecastURL
		q.Set("past_days", "7")
	} else {
		q.Set("start_date", day)
		q.Set("end_date", day)
	}

	var resp openMeteoHourlyResponse
	if err := s.get(ctx, base+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	want := at.Truncate(time.Hour).Format("2006-01-02T15:04")
	for i, ts := range resp.Hourly.Time {
		if ts != want {
			continue
		}
		if i >= len(resp.Hourly.Temperature2m) || i >= len(resp.Hourly.WindSpeed10m) || i >= len(resp.Hourly.WeatherCode) {
			break
		}
		return &WeatherSnapshot{
			Description:  describeWeatherCode(resp.Hourly.WeatherCode[i]),
			TemperatureC: resp.Hourly.Temperature2m[i],
			WindSpeedKmh: resp.Hourly.WindSpeed10m[i],
		}, nil
	}
	return nil, fmt.Errorf("no hourly weather for %s", want)
}

func (s *weatherService) get(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("open-meteo http %d: %s", resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("open-meteo decode error: %w", err)
	}
	return nil
}

// describeWeatherCode maps WMO weather interpretation codes to short
// human-readable descriptions for the scoring and briefing prompts.
func describeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code <= 2:
		return "partly cloudy"
	case code == 3:
		return "overcast"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code >= 61 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorm"
	default:
		return "unknown"
	}
}
