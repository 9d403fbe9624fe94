package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log     Log     `yaml:"log"`
	Server  Server  `yaml:"server"`
	OpenAI  OpenAI  `yaml:"openai"`
	Session Session `yaml:"session"`
}

type OpenAI struct {
	Extraction ModelConfig `yaml:"extraction" validate:"required"`
	Summary    ModelConfig `yaml:"summary" validate:"required"`
}

type ModelConfig struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// OpenAI model
	Model string `yaml:"model" example:"gpt-4o-mini" validate:"required"`
}

type Server struct {
	// Listen address of the HTTP API
	Addr string `yaml:"addr" example:":8080"`
}

type Session struct {
	// Storage backend: memory or file
	Backend string `yaml:"backend" example:"memory" validate:"oneof=memory file"`
	// Path of the session file, only used by the file backend
	FilePath string `yaml:"file_path" example:"data/sessions.jsonl"`
	// Idle sessions older than TTL are evicted, 0 disables eviction
	TTL time.Duration `yaml:"ttl" example:"24h"`
	// Number of raw turns kept before older ones are summarized
	HistoryWindow int `yaml:"history_window" example:"20" validate:"min=2"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":8080"
	}
	if result.Session.Backend == "" {
		result.Session.Backend = "memory"
	}
	if result.Session.FilePath == "" {
		result.Session.FilePath = "data/sessions.jsonl"
	}
	if result.Session.HistoryWindow == 0 {
		result.Session.HistoryWindow = 20
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
