package shell

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/weatherbuddy/internal/config"
	"github.com/fakhrymubarak/weatherbuddy/internal/favorites"
	"github.com/fakhrymubarak/weatherbuddy/internal/redis"
	"github.com/fakhrymubarak/weatherbuddy/internal/repository"
	"github.com/fakhrymubarak/weatherbuddy/internal/service"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/suite"
)

const (
	londonCurrent = `{
		"name": "London",
		"sys": {"country": "GB"},
		"main": {"temp": 15.2, "feels_like": 14.6, "humidity": 72, "pressure": 1012},
		"weather": [{"description": "scattered clouds"}],
		"wind": {"speed": 4.1, "deg": 80}
	}`
	londonForecast = `{
		"city": {"name": "London", "country": "GB"},
		"list": [
			{"dt_txt": "2024-01-01 00:00:00", "main": {"temp": 10.0}},
			{"dt_txt": "2024-01-01 12:00:00", "main": {"temp": 14.0}},
			{"dt_txt": "2024-01-02 00:00:00", "main": {"temp": 5.0}}
		]
	}`
)

type ShellTestSuite struct {
	suite.Suite
	owm       *httptest.Server
	miniRedis *miniredis.Miniredis
	mu        sync.Mutex
	hits      map[string]int
}

func (suite *ShellTestSuite) hitCount(endpoint string) int {
	suite.mu.Lock()
	defer suite.mu.Unlock()
	return suite.hits[endpoint]
}

// mockOWMApi serves /weather and /forecast for London, 401 for the city
// "Locked", 500 for "Broken" and 404 for anything else.
func (suite *ShellTestSuite) mockOWMApi() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.TrimPrefix(r.URL.Path, "/data/2.5/")
		suite.mu.Lock()
		suite.hits[endpoint]++
		suite.mu.Unlock()
		if r.URL.Query().Get("appid") != "test_api_key" || r.URL.Query().Get("units") != "metric" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch city := r.URL.Query().Get("q"); {
		case city == "Locked":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
		case city == "Broken":
			w.WriteHeader(http.StatusInternalServerError)
		case city == "London" && endpoint == "weather":
			_, _ = w.Write([]byte(londonCurrent))
		case city == "London" && endpoint == "forecast":
			_, _ = w.Write([]byte(londonForecast))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		}
	}))
}

func (suite *ShellTestSuite) SetupSuite() {
	suite.hits = make(map[string]int)
	suite.owm = suite.mockOWMApi()
	viper.Set("openweathermap.api_url", suite.owm.URL+"/data/2.5")
	config.ReloadConfigForTest()

	suite.miniRedis = miniredis.NewMiniRedis()
	suite.Require().NoError(suite.miniRedis.Start())
	viper.Set("redis.addr", suite.miniRedis.Addr())
	redis.ResetClientForTest()
}

func (suite *ShellTestSuite) TearDownSuite() {
	if suite.owm != nil {
		suite.owm.Close()
	}
	if suite.miniRedis != nil {
		suite.miniRedis.Close()
	}
	viper.Set("openweathermap.api_url", "https://api.openweathermap.org/data/2.5")
	viper.Set("redis.addr", "localhost:6379")
	redis.ResetClientForTest()
}

func (suite *ShellTestSuite) SetupTest() {
	suite.mu.Lock()
	suite.hits = make(map[string]int)
	suite.mu.Unlock()
	suite.miniRedis.FlushAll()
}

func TestShellTestSuite(t *testing.T) {
	suite.Run(t, new(ShellTestSuite))
}

func (suite *ShellTestSuite) runShell(store favorites.Store, input string) (string, error) {
	var out bytes.Buffer
	repo := repository.NewWeatherRepository("test_api_key")
	svc := service.NewWeatherService(repo, &out)
	err := New(svc, store, strings.NewReader(input), &out).Run(context.Background())
	return out.String(), err
}

func (suite *ShellTestSuite) TestLookupAndSaveToFile() {
	store := favorites.NewFileStore(filepath.Join(suite.T().TempDir(), "favorites.txt"))

	out, err := suite.runShell(store, "London\ny\nn\n")
	suite.Require().NoError(err)

	suite.Contains(out, "City: London, GB")
	suite.Contains(out, "Condition: Scattered Clouds")
	suite.Contains(out, "Wind: 4.1 m/s @ 80°")
	suite.Contains(out, "5-Day Forecast — London")
	suite.Contains(out, "2024-01-01: 12.0°C (avg)")
	suite.Contains(out, "2024-01-02 | # 5.0°C")
	suite.Contains(out, "London added to favorites.")

	b, err := os.ReadFile(store.Path)
	suite.Require().NoError(err)
	suite.Equal("London\n", string(b))
	suite.Equal(1, suite.hitCount("weather"))
	suite.Equal(1, suite.hitCount("forecast"))
}

func (suite *ShellTestSuite) TestFavoriteMenuWithRedisStore() {
	store := favorites.NewRedisStore(redis.GetClient(), "weatherbuddy:favorites")
	suite.Require().NoError(store.Save(context.Background(), "London"))

	out, err := suite.runShell(store, "1\nn\n")
	suite.Require().NoError(err)
	suite.Contains(out, "  1) London")
	suite.Contains(out, "City: London, GB")
	suite.NotContains(out, "Save city to favorites?")
}

func (suite *ShellTestSuite) TestNotFoundContinuesSession() {
	store := favorites.NewFileStore(filepath.Join(suite.T().TempDir(), "favorites.txt"))

	out, err := suite.runShell(store, "Atlantis\ny\nLondon\nn\nn\n")
	suite.Require().NoError(err)
	suite.Contains(out, service.MsgNotFound)
	suite.Contains(out, "No current weather data available.")
	suite.Contains(out, "No forecast data available.")
	suite.Contains(out, "City: London, GB")
	suite.Equal(2, suite.hitCount("weather"))
}

func (suite *ShellTestSuite) TestUnauthorizedContinuesSession() {
	store := favorites.NewFileStore(filepath.Join(suite.T().TempDir(), "favorites.txt"))

	out, err := suite.runShell(store, "Locked\ny\nq\n")
	suite.Require().NoError(err)
	suite.Contains(out, service.MsgUnauthorized)
	suite.NotContains(out, "Save city to favorites?")
	suite.Equal(2, strings.Count(out, "WeatherBuddy"))
}

func (suite *ShellTestSuite) TestUnexpectedStatusEndsSession() {
	store := favorites.NewFileStore(filepath.Join(suite.T().TempDir(), "favorites.txt"))

	_, err := suite.runShell(store, "Broken\n")
	suite.Require().Error(err)
	suite.Contains(err.Error(), "500")
}
