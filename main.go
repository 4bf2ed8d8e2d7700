package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fakhrymubarak/weatherbuddy/internal/config"
	"github.com/fakhrymubarak/weatherbuddy/internal/favorites"
	"github.com/fakhrymubarak/weatherbuddy/internal/redis"
	"github.com/fakhrymubarak/weatherbuddy/internal/repository"
	"github.com/fakhrymubarak/weatherbuddy/internal/service"
	"github.com/fakhrymubarak/weatherbuddy/internal/shell"
)

func missingKeyMessage(envPath string) string {
	return fmt.Sprintf("ERROR: Missing %s in %s.\n"+
		"Create .env next to the weatherbuddy binary with a line like:\n"+
		"%s=your_openweathermap_key_here\n", config.APIKeyEnv, envPath, config.APIKeyEnv)
}

// newFavoritesStore picks the favorites backend named by favorites.backend.
func newFavoritesStore(backend string) (favorites.Store, error) {
	switch backend {
	case "", "file":
		return favorites.NewFileStore(config.GetFavoritesPath()), nil
	case "redis":
		return favorites.NewRedisStore(redis.GetClient(), config.GetFavoritesRedisKey()), nil
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", backend)
	}
}

func main() {
	log := config.GetLogger()
	defer log.Sync()

	apiKey := config.GetOpenWeatherMapAPIKey()
	if apiKey == "" {
		fmt.Fprint(os.Stderr, missingKeyMessage(config.EnvFilePath()))
		os.Exit(1)
	}

	store, err := newFavoritesStore(config.GetFavoritesBackend())
	if err != nil {
		log.Fatalw("Invalid favorites configuration", "error", err)
	}

	repo := repository.NewWeatherRepository(apiKey)
	svc := service.NewWeatherService(repo, os.Stdout)
	if err := shell.New(svc, store, os.Stdin, os.Stdout).Run(context.Background()); err != nil {
		log.Fatalw("WeatherBuddy stopped", "error", err)
	}
}
