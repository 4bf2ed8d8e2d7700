// Package shell runs the interactive lookup loop: pick a city, show current
// conditions and the forecast, optionally remember the city.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/weatherbuddy/internal/config"
	"github.com/fakhrymubarak/weatherbuddy/internal/display"
	"github.com/fakhrymubarak/weatherbuddy/internal/favorites"
	"github.com/fakhrymubarak/weatherbuddy/internal/service"
)

const (
	promptMenu    = "Select a favorite (number) or 0 to type a city: "
	promptNewCity = "Enter city name: "
	promptCity    = "Enter city name (or 'q' to quit): "
	promptSave    = "\nSave city to favorites? (y/n): "
	promptAgain   = "\nLook up another city? (y/n): "
)

var quitWords = map[string]bool{"q": true, "quit": true, "exit": true}

type Shell struct {
	weather service.WeatherServiceInterface
	store   favorites.Store
	in      *bufio.Reader
	out     io.Writer
}

func New(weather service.WeatherServiceInterface, store favorites.Store, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		weather: weather,
		store:   store,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run loops until the user quits, declines another lookup or input ends.
// Recoverable lookup failures have already been reported by the weather
// service; any error returned here is not recoverable.
func (s *Shell) Run(ctx context.Context) error {
	err := s.loop(ctx)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Shell) loop(ctx context.Context) error {
	log := config.GetLogger()
	for {
		city, err := s.chooseCity(ctx)
		if err != nil {
			return err
		}
		if city == "" {
			fmt.Fprintln(s.out, "Please enter a city name.")
			continue
		}
		if quitWords[strings.ToLower(city)] {
			return nil
		}
		log.Debugw("Looking up city", "city", city)

		current, err := s.weather.GetCurrent(ctx, city)
		if err != nil {
			return err
		}
		display.CurrentWeather(s.out, current)

		forecast, err := s.weather.GetForecast(ctx, city)
		if err != nil {
			return err
		}
		display.Forecast(s.out, forecast)

		if current != nil {
			if err := s.offerSave(ctx, city); err != nil {
				return err
			}
		}

		again, err := s.readLine(promptAgain)
		if err != nil {
			return err
		}
		if strings.ToLower(again) != "y" {
			return nil
		}
	}
}

// chooseCity shows the favorites menu when there is one. A number in range
// picks that favorite; 0, anything else, or no favorites at all lead to a
// free text prompt.
func (s *Shell) chooseCity(ctx context.Context) (string, error) {
	favs, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}

	fmt.Fprintln(s.out, "\nWeatherBuddy")
	if len(favs) > 0 {
		fmt.Fprintln(s.out, "Favorites:")
		for i, c := range favs {
			fmt.Fprintf(s.out, "  %d) %s\n", i+1, c)
		}
		fmt.Fprintln(s.out, "  0) Enter a new city")

		choice, err := s.readLine(promptMenu)
		if err != nil {
			return "", err
		}
		if isDigits(choice) {
			n, convErr := strconv.Atoi(choice)
			if convErr == nil {
				if n == 0 {
					return s.readLine(promptNewCity)
				}
				if n >= 1 && n <= len(favs) {
					return favs[n-1], nil
				}
			}
		}
	}
	return s.readLine(promptCity)
}

func (s *Shell) offerSave(ctx context.Context, city string) error {
	favs, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	for _, f := range favs {
		if f == city {
			return nil
		}
	}

	answer, err := s.readLine(promptSave)
	if err != nil {
		return err
	}
	if strings.ToLower(answer) != "y" {
		return nil
	}
	if err := s.store.Save(ctx, city); err != nil {
		return fmt.Errorf("saving favorite %q: %w", city, err)
	}
	fmt.Fprintf(s.out, "%s added to favorites.\n", city)
	return nil
}

// readLine prints prompt and returns the next trimmed input line. io.EOF is
// only returned once input is exhausted with nothing left to read.
func (s *Shell) readLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
