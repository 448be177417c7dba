package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Scheduler  SchedulerConfig
	Timetable  TimetableCacheConfig
	Simulation SimulationConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the timetable construction engine.
type SchedulerConfig struct {
	CandidateCount    int
	DailySlotCap      int
	LabBlockSize      int
	InjectDemoClashes bool
	RescheduleOptions int
	RoomOutageOptions int
	HolidayOptions    int
}

// TimetableCacheConfig governs caching of timetable reads.
type TimetableCacheConfig struct {
	CacheTTL time.Duration
}

// SimulationConfig bounds the in-memory what-if history.
type SimulationConfig struct {
	HistorySize int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		CandidateCount:    v.GetInt("SCHEDULER_CANDIDATE_COUNT"),
		DailySlotCap:      v.GetInt("SCHEDULER_DAILY_SLOT_CAP"),
		LabBlockSize:      v.GetInt("SCHEDULER_LAB_BLOCK_SIZE"),
		InjectDemoClashes: v.GetBool("SCHEDULER_INJECT_DEMO_CLASHES"),
		RescheduleOptions: v.GetInt("SCHEDULER_RESCHEDULE_OPTIONS"),
		RoomOutageOptions: v.GetInt("SCHEDULER_ROOM_OUTAGE_OPTIONS"),
		HolidayOptions:    v.GetInt("SCHEDULER_HOLIDAY_OPTIONS"),
	}

	cfg.Timetable = TimetableCacheConfig{
		CacheTTL: parseDuration(v.GetString("TIMETABLE_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Simulation = SimulationConfig{
		HistorySize: v.GetInt("SIMULATION_HISTORY_SIZE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_CANDIDATE_COUNT", 3)
	v.SetDefault("SCHEDULER_DAILY_SLOT_CAP", 4)
	v.SetDefault("SCHEDULER_LAB_BLOCK_SIZE", 3)
	v.SetDefault("SCHEDULER_INJECT_DEMO_CLASHES", false)
	v.SetDefault("SCHEDULER_RESCHEDULE_OPTIONS", 3)
	v.SetDefault("SCHEDULER_ROOM_OUTAGE_OPTIONS", 2)
	v.SetDefault("SCHEDULER_HOLIDAY_OPTIONS", 2)

	v.SetDefault("TIMETABLE_CACHE_TTL", "5m")
	v.SetDefault("SIMULATION_HISTORY_SIZE", 50)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
