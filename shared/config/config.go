package config

import (
	"os"
	"path"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	BatchSize           int    `yaml:"batch_size" validate:"gt=0"`
	MaxWorkers          int    `yaml:"max_workers" validate:"gt=0"`
	ProcessingLimit     int    `yaml:"processing_limit" validate:"gte=0"` // 0 = no limit
	MinArticleLenDigits int    `yaml:"min_article_len_digits" validate:"gt=0"`
	MinArticleLenAlnum  int    `yaml:"min_article_len_alnum" validate:"gt=0"`
	DictionaryPath      string `yaml:"dictionary_path" validate:"required"`
	BrandGroupsPath     string `yaml:"brand_groups_path" validate:"required"`
	NormalizerCacheSize int    `yaml:"normalizer_cache_size" validate:"gt=0"`
	MonitoringAddr      string `yaml:"monitoring_addr"` // empty disables the monitoring server
	LogLevel            string `yaml:"log_level"`
	LogJSON             bool   `yaml:"log_json"`
}

type Private struct {
	Pg Pg `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"gt=0"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname" validate:"required"`
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}

	validate := validator.New()
	if err := validate.Struct(cfg.Public); err != nil {
		panic("invalid public config: " + err.Error())
	}
	if err := validate.Struct(cfg.Private.Pg); err != nil {
		panic("invalid pg config: " + err.Error())
	}

	return cfg
}
