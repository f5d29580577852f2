package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		Token   string `yaml:"token"`
		AdminID int64  `yaml:"admin_id"`
	} `yaml:"telegram"`
	AI struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"ai"`
	Premium struct {
		DBPath        string `yaml:"db_path"`
		KeyPrefix     string `yaml:"key_prefix"`
		FreePageLimit int    `yaml:"free_page_limit"`
	} `yaml:"premium"`
	Author struct {
		FallbackName        string `yaml:"fallback_name"`
		FallbackAffiliation string `yaml:"fallback_affiliation"`
	} `yaml:"author"`
	Humanize bool `yaml:"humanize"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	var cfg Config

	// 2. Load YAML config when present; env-only setups are fine too.
	if file, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if token := os.Getenv("PAPERFORGE_BOT_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
	if apiKey := os.Getenv("PAPERFORGE_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if model := os.Getenv("PAPERFORGE_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if baseURL := os.Getenv("PAPERFORGE_BASE_URL"); baseURL != "" {
		cfg.AI.BaseURL = baseURL
	}
	if admin := os.Getenv("PAPERFORGE_ADMIN_ID"); admin != "" {
		id, err := strconv.ParseInt(admin, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PAPERFORGE_ADMIN_ID: %w", err)
		}
		cfg.Telegram.AdminID = id
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AI.Model == "" {
		c.AI.Model = "gemini-3-pro-preview"
	}
	if c.Premium.DBPath == "" {
		c.Premium.DBPath = "paperforge.db"
	}
	if c.Premium.KeyPrefix == "" {
		c.Premium.KeyPrefix = "FORGE"
	}
	if c.Premium.FreePageLimit == 0 {
		c.Premium.FreePageLimit = 4
	}
	if c.Author.FallbackName == "" {
		c.Author.FallbackName = "Author"
	}
	if c.Author.FallbackAffiliation == "" {
		c.Author.FallbackAffiliation = "University"
	}
}
