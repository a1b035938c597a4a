package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv           string
	HTTPAddr         string
	MetricsAddr      string
	ApprovalsBackend string // memory | redis | mysql
	MySQLDSN         string
	RedisAddr        string
	RedisDB          int
	RedisPass        string
	HostawayBase     string
	HostawayKey      string
	FetchTimeout     time.Duration
	CacheTTL         time.Duration
	ChannelRPS       int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ":9100"),
		ApprovalsBackend: env("APPROVALS_BACKEND", "memory"),
		MySQLDSN:         env("MYSQL_DSN", "root:root@tcp(localhost:3306)/reviews?parseTime=true&loc=UTC"),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisDB:          atoi("REDIS_DB", 0),
		RedisPass:        env("REDIS_PASSWORD", ""),
		HostawayBase:     env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayKey:      env("HOSTAWAY_API_KEY", ""),
		FetchTimeout:     time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 0)) * time.Second,
		ChannelRPS:       atoi("CHANNEL_RPS", 5),
	}
	if c.HostawayKey == "" {
		log.Warn().Msg("HOSTAWAY_API_KEY is empty; fetches will serve the fallback dataset")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
