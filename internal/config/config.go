package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Redis    Redis  `yaml:"redis"`
	SQLite   SQLite `yaml:"sqlite"`
	NATS     NATS   `yaml:"nats"`
	Game     Game   `yaml:"game"`
}

type Redis struct {
	Enabled     bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"REDIS_SNAPSHOT_TTL" env-default:"24h"`
}

type SQLite struct {
	Enabled bool   `yaml:"enabled" env:"SQLITE_ENABLED" env-default:"false"`
	Path    string `yaml:"path" env:"SQLITE_PATH" env-default:"results.db"`
}

type NATS struct {
	Enabled       bool   `yaml:"enabled" env:"NATS_ENABLED" env-default:"false"`
	URL           string `yaml:"url" env:"NATS_URL" env-default:"nats://127.0.0.1:4222"`
	SubjectPrefix string `yaml:"subject-prefix" env:"NATS_SUBJECT_PREFIX" env-default:"games"`
}

type Game struct {
	TurnTimeout time.Duration `yaml:"turn-timeout" env:"GAME_TURN_TIMEOUT" env-default:"60s"`
	JoinTimeout time.Duration `yaml:"join-timeout" env:"GAME_JOIN_TIMEOUT" env-default:"60s"`
	Komi        float64       `yaml:"komi" env:"GAME_KOMI" env-default:"6.5"`
	GoSize      int           `yaml:"go-size" env:"GAME_GO_SIZE" env-default:"9"`
	GomokuSize  int           `yaml:"gomoku-size" env:"GAME_GOMOKU_SIZE" env-default:"15"`
	JunqiSeed   uint64        `yaml:"junqi-seed" env:"GAME_JUNQI_SEED" env-default:"0"`
}

// Load - reads path and applies env overrides.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
