package config

import (
	"os"
	"strconv"
)

// Config serviconli-tasks (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr string
	}
	Database DatabaseConfig
	Patient  PatientServiceConfig
	Ledger   LedgerConfig
	Log      struct {
		Level  string
		Format string
	}
}

// DatabaseConfig PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Database +
		" sslmode=" + c.SSLMode
}

// PatientServiceConfig remote patient registry settings
type PatientServiceConfig struct {
	BaseURL        string // patient-service base URL
	TimeoutSeconds int    // per-call deadline; the registry has no SLA, so keep this tight
}

// LedgerConfig external spreadsheet ledger settings
type LedgerConfig struct {
	Path  string // path to the .xlsx workbook (created on first write)
	Sheet string // sheet name, e.g. "CITAS ARMENIA"
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "serviconli_tasks")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "10"), 10)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Patient.BaseURL = getEnv("PATIENT_SERVICE_URL", "http://localhost:8081")
	cfg.Patient.TimeoutSeconds = parseInt(getEnv("PATIENT_SERVICE_TIMEOUT", "10"), 10)

	cfg.Ledger.Path = getEnv("LEDGER_PATH", "citas.xlsx")
	cfg.Ledger.Sheet = getEnv("LEDGER_SHEET", "CITAS ARMENIA")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
