package config

import (
	"os"
	"sync"

	"bookapp/package/logger"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	IsDebug *bool         `yaml:"is_debug" env:"BOOKAPP_DEBUG" env-default:"false"`
	Listen  Listener      `yaml:"listen"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"authorization"`
	Uploads UploadsConfig `yaml:"uploads"`
	Client  ClientConfig  `yaml:"client"`
}

type Listener struct {
	BindIp string `yaml:"bind_ip" env:"BOOKAPP_BIND_IP" env-default:"127.0.0.1"`
	Port   string `yaml:"port" env:"BOOKAPP_PORT" env-default:"8080"`
}

// StorageConfig selects the server storage backend. Driver "memory" needs no
// other fields; driver "postgres" uses the connection settings below.
type StorageConfig struct {
	Driver   string `yaml:"driver" env:"BOOKAPP_STORAGE_DRIVER" env-default:"memory"`
	Host     string `yaml:"host" env:"BOOKAPP_PG_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"BOOKAPP_PG_PORT" env-default:"5432"`
	Database string `yaml:"database" env:"BOOKAPP_PG_DATABASE" env-default:"bookapp"`
	Username string `yaml:"username" env:"BOOKAPP_PG_USERNAME" env-default:"bookapp"`
	Password string `yaml:"password" env:"BOOKAPP_PG_PASSWORD"`
}

type AuthConfig struct {
	SecretKey     string `yaml:"key" env:"BOOKAPP_JWT_KEY" env-default:"change-me"`
	TokenTTLHours int    `yaml:"token_ttl_hours" env:"BOOKAPP_TOKEN_TTL_HOURS" env-default:"24"`
}

type UploadsConfig struct {
	Dir string `yaml:"dir" env:"BOOKAPP_UPLOADS_DIR" env-default:"uploads/books"`
}

// ClientConfig drives the bookctl CLI.
type ClientConfig struct {
	BaseUrl   string `yaml:"base_url" env:"BOOKAPP_BASE_URL" env-default:"http://localhost:8080"`
	TokenFile string `yaml:"token_file" env:"BOOKAPP_TOKEN_FILE"`
}

var instance *Config
var once sync.Once

func GetConfig() *Config {
	once.Do(func() {
		logger.Log.Info("Reading app configuration")
		_ = godotenv.Load()

		instance = &Config{}
		path := os.Getenv("BOOKAPP_CONFIG")
		if path == "" {
			path = "config.yml"
		}

		var err error
		if _, statErr := os.Stat(path); statErr == nil {
			err = cleanenv.ReadConfig(path, instance)
		} else {
			err = cleanenv.ReadEnv(instance)
		}
		if err != nil {
			help, _ := cleanenv.GetDescription(instance, nil)
			logger.Log.Error(help)
			logger.Log.Fatal(err)
		}

		if instance.IsDebug != nil {
			logger.SetDebug(*instance.IsDebug)
		}
	})
	return instance
}
