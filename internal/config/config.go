package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Board    Board  `yaml:"board"`
	Search   Search `yaml:"search"`
	Redis    Redis  `yaml:"redis"`
	SQLite   SQLite `yaml:"sqlite"`
}

type Board struct {
	// Size of the board; zero asks for it when the game starts.
	Size    int  `yaml:"size" env:"BOARD_SIZE" env-default:"0"`
	AIFirst bool `yaml:"ai-first" env:"BOARD_AI_FIRST" env-default:"false"`
}

type Search struct {
	NoMemo    bool `yaml:"no-memo" env:"SEARCH_NO_MEMO" env-default:"false"`
	MemoLimit int  `yaml:"memo-limit" env:"SEARCH_MEMO_LIMIT" env-default:"0"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"24h"`
}

// SQLite keeps decisions in a local file when Redis is disabled. An empty path disables it.
type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_PATH"`
}

// Load reads the config file at path. When the file does not exist only the
// environment and the defaults are used.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}

		return config, nil
	}

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
