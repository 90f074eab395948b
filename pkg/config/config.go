package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shouni/gemini-style-kit/pkg/adapters"
	"github.com/shouni/gemini-style-kit/pkg/stylist"
)

// EnvPrefix は環境変数による上書きの接頭辞です。
const EnvPrefix = "STYLESENSE_"

// Config はアプリケーション全体の設定です。
type Config struct {
	Models            ModelsConfig  `yaml:"models"`
	AspectRatio       string        `yaml:"aspect_ratio"`
	ParallelSlots     bool          `yaml:"parallel_slots"`
	TextFailurePolicy string        `yaml:"text_failure_policy"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout"`
	Image             ImageConfig   `yaml:"image"`
	Server            ServerConfig  `yaml:"server"`
	Log               LogConfig     `yaml:"log"`
}

type ModelsConfig struct {
	Text  string `yaml:"text"`
	Image string `yaml:"image"`
}

// ImageConfig は参照画像を送信する前の縮小・圧縮設定です。
type ImageConfig struct {
	MaxDimension int `yaml:"max_dimension"`
	Quality      int `yaml:"quality"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// Default は既定値の設定を返します。
func Default() Config {
	return Config{
		Models: ModelsConfig{
			Text:  adapters.DefaultTextModel,
			Image: adapters.DefaultImageModel,
		},
		AspectRatio:       "3:4",
		TextFailurePolicy: string(stylist.DiscardImagesOnTextFailure),
		RequestTimeout:    3 * time.Minute,
		FetchTimeout:      20 * time.Second,
		Image: ImageConfig{
			MaxDimension: adapters.DefaultMaxDimension,
			Quality:      adapters.DefaultImageQuality,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 10 << 20,
		},
		Log: LogConfig{Level: "info", Console: true},
	}
}

// Load は既定値に YAML ファイル（path が空なら省略）と環境変数を順に重ねて読み込みます。
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("設定ファイルの解析に失敗しました: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv は STYLESENSE_* 環境変数で設定を上書きします。
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("TEXT_MODEL", &c.Models.Text)
	str("IMAGE_MODEL", &c.Models.Image)
	str("ASPECT_RATIO", &c.AspectRatio)
	str("TEXT_FAILURE_POLICY", &c.TextFailurePolicy)
	str("ADDR", &c.Server.Addr)
	str("LOG_LEVEL", &c.Log.Level)

	if v, ok := lookup(EnvPrefix + "PARALLEL_SLOTS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sPARALLEL_SLOTS: %w", EnvPrefix, err)
		}
		c.ParallelSlots = b
	}
	if v, ok := lookup(EnvPrefix + "REQUEST_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sREQUEST_TIMEOUT: %w", EnvPrefix, err)
		}
		c.RequestTimeout = d
	}
	return nil
}

// Validate は設定値の整合性を確認します。
func (c Config) Validate() error {
	var errs []error
	if !stylist.TextFailurePolicy(c.TextFailurePolicy).Valid() {
		errs = append(errs, fmt.Errorf("text_failure_policy must be %q or %q, got %q",
			stylist.DiscardImagesOnTextFailure, stylist.KeepImagesOnTextFailure, c.TextFailurePolicy))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("fetch_timeout must be positive"))
	}
	if c.Image.Quality < 1 || c.Image.Quality > 100 {
		errs = append(errs, fmt.Errorf("image.quality must be between 1 and 100, got %d", c.Image.Quality))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("server.max_upload_bytes must be positive"))
	}
	return errors.Join(errs...)
}
