package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`

	// Environment-only values, filled after the YAML is loaded.
	MongoURI     string `yaml:"-"`
	MongoDBName  string `yaml:"-"`
	KafkaBrokers string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ProvidersConfig pins the model identifiers used for each generation
// backend. Credentials are per-user and never live in configuration.
type ProvidersConfig struct {
	OpenAIModel      string `yaml:"openai_model"`
	OpenAIImageModel string `yaml:"openai_image_model"`
	ClaudeModel      string `yaml:"claude_model"`
	PerplexityModel  string `yaml:"perplexity_model"`
	GeminiModel      string `yaml:"gemini_model"`
	StabilityEngine  string `yaml:"stability_engine"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}

	c.applyDefaults()
	c.MongoURI = os.Getenv("MONGODB_URI")
	c.MongoDBName = os.Getenv("MONGODB_DB_NAME")
	c.KafkaBrokers = os.Getenv("KAFKA_BOOTSTRAP_SERVERS")

	config = &c
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Providers.OpenAIModel == "" {
		c.Providers.OpenAIModel = "gpt-4-turbo"
	}
	if c.Providers.OpenAIImageModel == "" {
		c.Providers.OpenAIImageModel = "dall-e-3"
	}
	if c.Providers.ClaudeModel == "" {
		c.Providers.ClaudeModel = "claude-3-opus-20240229"
	}
	if c.Providers.PerplexityModel == "" {
		c.Providers.PerplexityModel = "sonar-medium-online"
	}
	if c.Providers.GeminiModel == "" {
		c.Providers.GeminiModel = "gemini-2.0-flash"
	}
	if c.Providers.StabilityEngine == "" {
		c.Providers.StabilityEngine = "stable-diffusion-xl-1024-v1-0"
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
