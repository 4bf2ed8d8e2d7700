package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// APIKeyEnv is the environment variable holding the OpenWeatherMap API key.
const APIKeyEnv = "OWM_API_KEY"

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// configErrs collects problems met while reading config files. They are
// reported once the logger exists, since building the logger needs config.
var configErrs []error

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func setDefaults() {
	viper.SetDefault("openweathermap.api_url", "https://api.openweathermap.org/data/2.5")
	viper.SetDefault("openweathermap.timeout", "12s")
	viper.SetDefault("favorites.backend", "file")
	viper.SetDefault("favorites.path", "favorites.txt")
	viper.SetDefault("favorites.redis_key", "weatherbuddy:favorites")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("rate_limiter.rate", 1)
	viper.SetDefault("rate_limiter.burst", 2)
	viper.SetDefault("log.level", "warn")
}

func initConfig() {
	once.Do(func() {
		configErrs = nil
		setDefaults()

		root, err := getProjectRoot()
		if err != nil {
			root, _ = os.Getwd()
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			configErrs = append(configErrs, err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			if err = viper.MergeInConfig(); err != nil {
				configErrs = append(configErrs, err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// EnvFilePath returns the .env file that sits next to the running executable.
func EnvFilePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ".env"
	}
	return filepath.Join(filepath.Dir(exe), ".env")
}

// GetOpenWeatherMapAPIKey loads .env files (next to the executable, then the
// working directory) and returns OWM_API_KEY. Variables already present in
// the environment win over .env contents.
func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load(EnvFilePath())
	_ = godotenv.Load()
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}

// GetOpenWeatherApiUrl returns the base URL the weather endpoints hang off.
func GetOpenWeatherApiUrl() string {
	initConfig()
	return strings.TrimRight(viper.GetString("openweathermap.api_url"), "/")
}

// GetHTTPTimeout returns the per-request timeout. Defaults to 12s if not set or invalid.
func GetHTTPTimeout() time.Duration {
	initConfig()
	dur, err := time.ParseDuration(viper.GetString("openweathermap.timeout"))
	if err != nil || dur <= 0 {
		return 12 * time.Second
	}
	return dur
}

func GetFavoritesBackend() string {
	initConfig()
	return strings.ToLower(viper.GetString("favorites.backend"))
}

func GetFavoritesPath() string {
	initConfig()
	return viper.GetString("favorites.path")
}

func GetFavoritesRedisKey() string {
	initConfig()
	return viper.GetString("favorites.redis_key")
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

// GetRateLimiterConfig returns the rate (requests per second) and burst for
// outbound API calls.
func GetRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.rate")
	if rate <= 0 {
		rate = 1
	}
	burst = viper.GetInt("rate_limiter.burst")
	if burst <= 0 {
		burst = 2
	}
	return
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		initConfig()
		level, err := zapcore.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			level = zapcore.WarnLevel
		}
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
		for _, e := range configErrs {
			logger.Debugw("Config file not loaded, using defaults", "error", e)
		}
	})
	return logger
}
