package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// StoreDriver selects the persistence backend.
type StoreDriver string

const (
	StoreJSONFile StoreDriver = "json"
	StoreSQLite   StoreDriver = "sqlite"
	StorePostgres StoreDriver = "postgres"
	StoreRedis    StoreDriver = "redis"
)

type Config struct {
	StoreDriver StoreDriver
	StorePath   string // json driver; empty means ~/.exograde.storage
	DBDSN       string // sqlite/postgres drivers
	RedisAddr   string

	TracePath string // empty means ~/.exograde.trace

	// Seed pins the shuffle order; 0 draws a fresh one per session.
	Seed int64

	Debug bool
}

// FromEnv reads configuration from the environment, with a best-effort
// .env load first so notebooks and CI can drop a file next to the quiz.
func FromEnv() Config {
	_ = godotenv.Load()
	return Config{
		StoreDriver: StoreDriver(envOr("EXOGRADE_STORE_DRIVER", string(StoreJSONFile))),
		StorePath:   os.Getenv("EXOGRADE_STORE"),
		DBDSN:       os.Getenv("EXOGRADE_DB_DSN"),
		RedisAddr:   envOr("EXOGRADE_REDIS_ADDR", "localhost:6379"),
		TracePath:   os.Getenv("EXOGRADE_TRACE"),
		Seed:        envInt64("EXOGRADE_SEED", 0),
		Debug:       envBool("EXOGRADE_DEBUG", false),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt64(k string, def int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
