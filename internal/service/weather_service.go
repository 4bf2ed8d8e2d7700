package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fakhrymubarak/weatherbuddy/internal/config"
	"github.com/fakhrymubarak/weatherbuddy/internal/model"
	"github.com/fakhrymubarak/weatherbuddy/internal/repository"
)

const (
	MsgNotFound     = "City not found (404). Please check the spelling."
	MsgUnauthorized = "Unauthorized (401). Check your API key (" + config.APIKeyEnv + ") or account activation."
)

type WeatherServiceInterface interface {
	GetCurrent(ctx context.Context, city string) (*model.CurrentWeatherResponse, error)
	GetForecast(ctx context.Context, city string) (*model.ForecastResponse, error)
}

// WeatherService turns recoverable repository failures into a printed
// message and an absent (nil) result. Anything else is returned as an error.
type WeatherService struct {
	WeatherRepo repository.WeatherRepository
	Out         io.Writer
}

func NewWeatherService(repo repository.WeatherRepository, out io.Writer) *WeatherService {
	if out == nil {
		out = os.Stdout
	}
	return &WeatherService{
		WeatherRepo: repo,
		Out:         out,
	}
}

func (s *WeatherService) GetCurrent(ctx context.Context, city string) (*model.CurrentWeatherResponse, error) {
	data, err := s.WeatherRepo.GetCurrent(ctx, city)
	if err != nil {
		return nil, s.absentOnRecoverable(err)
	}
	return data, nil
}

func (s *WeatherService) GetForecast(ctx context.Context, city string) (*model.ForecastResponse, error) {
	data, err := s.WeatherRepo.GetForecast(ctx, city)
	if err != nil {
		return nil, s.absentOnRecoverable(err)
	}
	return data, nil
}

// absentOnRecoverable prints the user message for not-found, unauthorized,
// network and malformed-payload failures and swallows them. Unexpected
// statuses are passed back unchanged.
func (s *WeatherService) absentOnRecoverable(err error) error {
	var netErr *repository.NetworkError
	switch {
	case errors.Is(err, repository.ErrLocationNotFound):
		fmt.Fprintln(s.Out, MsgNotFound)
	case errors.Is(err, repository.ErrUnauthorized):
		fmt.Fprintln(s.Out, MsgUnauthorized)
	case errors.As(err, &netErr):
		fmt.Fprintf(s.Out, "Network error: %v\n", netErr.Err)
	case errors.Is(err, repository.ErrMalformedPayload):
		fmt.Fprintf(s.Out, "Network error: %v\n", err)
	default:
		return err
	}
	config.GetLogger().Debugw("Weather lookup returned no data", "error", err)
	return nil
}
