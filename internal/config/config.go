package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	ModeServer  = "server"
	ModeConsole = "console"

	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel       string        `yaml:"log-level" env:"TICTACTOE_LOG_LEVEL" env-default:"info"`
	Mode           string        `yaml:"mode" env:"TICTACTOE_MODE" env-default:"server"`
	HTTPPort       string        `yaml:"http-port" env:"TICTACTOE_HTTP_PORT" env-default:"9090"`
	SocketPort     string        `yaml:"socket-port" env:"TICTACTOE_SOCKET_PORT" env-default:"8080"`
	Storage        string        `yaml:"storage" env:"TICTACTOE_STORAGE" env-default:"memory"`
	GameTTL        time.Duration `yaml:"game-ttl" env:"TICTACTOE_GAME_TTL" env-default:"1h"`
	AutoResetDelay time.Duration `yaml:"auto-reset-delay" env:"TICTACTOE_AUTO_RESET_DELAY" env-default:"3s"`
	AllowedOrigin  string        `yaml:"allowed-origin" env:"TICTACTOE_ALLOWED_ORIGIN" env-default:""`
	Redis          Redis         `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"TICTACTOE_REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"TICTACTOE_REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file. When the file does not
// exist, the configuration is read from the environment alone.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
