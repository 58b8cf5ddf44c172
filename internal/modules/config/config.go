package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	igAPIKeyENV       = "IG_API_KEY"
	igIdentifierENV   = "IG_IDENTIFIER"
	igPasswordENV     = "IG_PASSWORD"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
)

// Config ...
type Config struct {
	Service struct {
		Host       string `yaml:"host"`
		PublicPort int    `yaml:"public_port"`
		AdminPort  int    `yaml:"admin_port"`
	} `yaml:"service"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	IG struct {
		// demo-гейтвей по умолчанию; боевой задаётся через IG_BASE_URL
		BaseURL  string `yaml:"base_url"`
		Currency string `yaml:"currency"`
		// креды только из окружения, в yaml им не место
		APIKey     string `yaml:"-"`
		Identifier string `yaml:"-"`
		Password   string `yaml:"-"`
	} `yaml:"ig"`

	// Размер ордера, если сигнал его не прислал
	OrderSize float64 `yaml:"order_size"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Интервалы — только из ENV, yaml.v2 не умеет "5s"
	PollInterval   time.Duration
	RequestTimeout time.Duration
}

func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	config := Config{
		PollInterval:   durationFromEnv("POLL_INTERVAL", "5s"),
		RequestTimeout: durationFromEnv("REQUEST_TIMEOUT", "10s"),
	}
	config.Service.Host = "0.0.0.0"
	config.Service.PublicPort = 8000
	config.Service.AdminPort = 8080
	config.IG.BaseURL = "https://demo-api.ig.com/gateway/deal"
	config.IG.Currency = "USD"
	config.OrderSize = 1.0

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	path := configFileName
	if filepath.Dir(path) == "." {
		path = filepath.Join("configs", configFileName)
	}

	if file, err := os.Open(path); err == nil {
		decoder := yaml.NewDecoder(file)
		if dErr := decoder.Decode(&config); dErr != nil {
			_ = file.Close()
			return nil, dErr
		}
		_ = file.Close()
	} else {
		// конфиг-файл опционален: деплой в стиле "только env" тоже валиден
		log.Printf("config file %s not found, using env/defaults", path)
	}

	config.IG.APIKey = os.Getenv(igAPIKeyENV)
	config.IG.Identifier = os.Getenv(igIdentifierENV)
	config.IG.Password = os.Getenv(igPasswordENV)

	if base := os.Getenv("IG_BASE_URL"); base != "" {
		config.IG.BaseURL = base
	}
	if cur := os.Getenv("IG_CURRENCY"); cur != "" {
		config.IG.Currency = cur
	}
	config.OrderSize = floatFromEnv("ORDER_SIZE", config.OrderSize)

	if token := os.Getenv(tokenTelegramENV); token != "" {
		config.Telegram.Token = token
	}
	if chat := int64FromEnv("TELEGRAM_CHAT_ID", 0); chat != 0 {
		config.Telegram.ChatID = chat
	}

	return &config, nil
}

func floatFromEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func int64FromEnv(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationFromEnv(key, def string) time.Duration {
	val := getenvDefault(key, def)
	d, err := time.ParseDuration(val)
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
