package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fakhrymubarak/weatherbuddy/internal/config"
	"github.com/fakhrymubarak/weatherbuddy/internal/middleware"
	"github.com/fakhrymubarak/weatherbuddy/internal/model"
)

// Custom error types
var (
	ErrLocationNotFound = errors.New("location not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNetwork          = errors.New("network error")
	ErrMalformedPayload = errors.New("malformed response")
)

// NetworkError wraps transport failures (DNS, timeout, refused connection).
// It matches ErrNetwork with errors.Is.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// StatusError is returned for any non-success status other than 404 and 401.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d from weather API: %s", e.StatusCode, e.Body)
}

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	GetCurrent(ctx context.Context, city string) (*model.CurrentWeatherResponse, error)
	GetForecast(ctx context.Context, city string) (*model.ForecastResponse, error)
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewHTTPClient builds the client used against the weather API: fixed
// timeout from config and a rate limited transport.
func NewHTTPClient() *http.Client {
	rate, burst := config.GetRateLimiterConfig()
	return &http.Client{
		Timeout:   config.GetHTTPTimeout(),
		Transport: middleware.NewRateLimitedTransport(nil, rate, burst),
	}
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(apiKey string, httpClient ...*http.Client) WeatherRepository {
	var client *http.Client
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	} else {
		client = NewHTTPClient()
	}
	return &weatherRepository{
		httpClient: client,
		baseURL:    config.GetOpenWeatherApiUrl(),
		apiKey:     apiKey,
	}
}

// GetCurrent fetches current conditions for city from the /weather endpoint.
func (r *weatherRepository) GetCurrent(ctx context.Context, city string) (*model.CurrentWeatherResponse, error) {
	var data model.CurrentWeatherResponse
	if err := r.get(ctx, "weather", city, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetForecast fetches the 5 day / 3 hour forecast for city from the /forecast endpoint.
func (r *weatherRepository) GetForecast(ctx context.Context, city string) (*model.ForecastResponse, error) {
	var data model.ForecastResponse
	if err := r.get(ctx, "forecast", city, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// get issues a single GET against {base}/{endpoint} and decodes the body into out.
func (r *weatherRepository) get(ctx context.Context, endpoint, city string, out interface{}) error {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", r.apiKey)
	params.Set("units", "metric")
	reqURL := fmt.Sprintf("%s/%s?%s", r.baseURL, endpoint, params.Encode())

	log := config.GetLogger()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &NetworkError{Err: err}
	}

	log.Debugw("Requesting weather API", "endpoint", endpoint, "city", city)
	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Debugw("Weather API request failed", "endpoint", endpoint, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	log.Debugw("Weather API responded", "endpoint", endpoint, "status", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrLocationNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	return decodePayload(endpoint, body, out)
}

// decodePayload keeps whatever decoded when a field has the wrong JSON type;
// that field is left empty and renders as a placeholder. A body that is not
// JSON at all yields ErrMalformedPayload.
func decodePayload(endpoint string, body []byte, out interface{}) error {
	err := json.Unmarshal(body, out)
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &typeErr):
		config.GetLogger().Debugw("Ignoring mistyped field in weather payload", "endpoint", endpoint, "field", typeErr.Field, "error", err)
		return nil
	default:
		return fmt.Errorf("%w from %s endpoint: %v", ErrMalformedPayload, endpoint, err)
	}
}
