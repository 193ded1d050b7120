package config

import (
	"flag"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func setDefaults() {
	viper.SetDefault("openweathermap.api_url", "https://api.openweathermap.org/data/2.5")
	viper.SetDefault("openweathermap.units", "metric")
	viper.SetDefault("openweathermap.timeout", "10s")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.expiration", "10m")
	viper.SetDefault("recent.backend", "bolt")
	viper.SetDefault("recent.path", "recent.db")
	viper.SetDefault("recent.key", "recentCities")
	viper.SetDefault("geolocation.provider", "ip")
	viper.SetDefault("geolocation.ip_api_url", "http://ip-api.com/json")
	viper.SetDefault("breaker.max_requests", 1)
	viper.SetDefault("breaker.interval", "1m")
	viper.SetDefault("breaker.timeout", "30s")
	viper.SetDefault("breaker.failure_threshold", 5)
	viper.SetDefault("server.port", "8080")
}

func initConfig() {
	once.Do(func() {
		setDefaults()
		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Warnw("Project root not found, using defaults", "error", err)
			return
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Warnw("Error reading test config file", "error", err)
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

// GetOpenWeatherApiUrl returns the OpenWeatherMap base URL without the endpoint path.
func GetOpenWeatherApiUrl() string {
	initConfig()
	return viper.GetString("openweathermap.api_url")
}

func GetOpenWeatherUnits() string {
	initConfig()
	return viper.GetString("openweathermap.units")
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

// GetHTTPTimeout returns the upstream request timeout. Defaults to 10s if invalid.
func GetHTTPTimeout() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("openweathermap.timeout"), 10*time.Second)
}

func GetRedisAddr() string {
	initConfig()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return viper.GetString("redis.addr")
}

func GetRedisPassword() string {
	_ = godotenv.Load()
	return os.Getenv("REDIS_PASSWORD")
}

func IsCacheEnabled() bool {
	initConfig()
	return viper.GetBool("cache.enabled")
}

// GetCacheExpiration returns how long upstream responses stay cached. Defaults to 10m.
func GetCacheExpiration() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("cache.expiration"), 10*time.Minute)
}

// GetRecentBackend returns the storage backend of the recent list: memory, bolt, sqlite or redis.
func GetRecentBackend() string {
	initConfig()
	return viper.GetString("recent.backend")
}

func GetRecentPath() string {
	initConfig()
	return viper.GetString("recent.path")
}

func GetRecentKey() string {
	initConfig()
	return viper.GetString("recent.key")
}

func GetGeolocationProvider() string {
	initConfig()
	return viper.GetString("geolocation.provider")
}

func GetGeolocationIPApiUrl() string {
	initConfig()
	return viper.GetString("geolocation.ip_api_url")
}

// GetStaticCoordinates returns the configured coordinates of the static geolocation provider.
// ok is false when either value is missing.
func GetStaticCoordinates() (lat, lon float64, ok bool) {
	initConfig()
	if !viper.IsSet("geolocation.lat") || !viper.IsSet("geolocation.lon") {
		return 0, 0, false
	}
	return viper.GetFloat64("geolocation.lat"), viper.GetFloat64("geolocation.lon"), true
}

// GetBreakerConfig returns the circuit breaker settings for upstream calls.
func GetBreakerConfig() (maxRequests uint32, interval, timeout time.Duration, failureThreshold uint32) {
	initConfig()
	maxRequests = viper.GetUint32("breaker.max_requests")
	interval = parseDuration(viper.GetString("breaker.interval"), time.Minute)
	timeout = parseDuration(viper.GetString("breaker.timeout"), 30*time.Second)
	failureThreshold = viper.GetUint32("breaker.failure_threshold")
	if failureThreshold == 0 {
		failureThreshold = 5
	}
	return
}

func GetServerPort() string {
	initConfig()
	serverPort := viper.GetString("server.port")
	return serverPort
}

// GetServerTimeout returns server.<key> as a duration, or def when unset or invalid.
func GetServerTimeout(key string, def time.Duration) time.Duration {
	initConfig()
	return parseDuration(viper.GetString("server."+key), def)
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	initConfig()
	return parseDuration(viper.GetString("rate_limiter.cleanup_timeout"), 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the per-minute rate and burst for the global rate limiter.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the per-minute rate and burst for the per-city rate limiter.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
