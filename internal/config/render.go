package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// RenderConfig controls how exported bill documents look. It lives in a
// watched file rather than the environment so the studio can tweak the
// print layout without restarting the service.
type RenderConfig struct {
	Currency   string `mapstructure:"currency"`
	PageSize   string `mapstructure:"pageSize"`
	FooterNote string `mapstructure:"footerNote"`
}

func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Currency:   "Rs.",
		PageSize:   "A4",
		FooterNote: "Thank you for your business",
	}
}

type RenderConfigHolder struct {
	current atomic.Value // holds RenderConfig
}

func NewRenderConfigHolder() (*RenderConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("render")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/bhanus-billing")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultRenderConfig()
		v.SetDefault("render.currency", defaults.Currency)
		v.SetDefault("render.pageSize", defaults.PageSize)
		v.SetDefault("render.footerNote", defaults.FooterNote)
	}

	var cfg RenderConfig
	if err := v.UnmarshalKey("render", &cfg); err != nil {
		return nil, err
	}
	if err := validateRenderConfig(cfg); err != nil {
		return nil, err
	}

	holder := &RenderConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RenderConfig
		if err := v.UnmarshalKey("render", &updated); err != nil {
			log.Printf("[render-config] reload failed: %v", err)
			return
		}
		if err := validateRenderConfig(updated); err != nil {
			log.Printf("[render-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[render-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *RenderConfigHolder) Get() RenderConfig {
	return h.current.Load().(RenderConfig)
}

func validateRenderConfig(cfg RenderConfig) error {
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("render.currency cannot be empty")
	}
	switch strings.ToUpper(strings.TrimSpace(cfg.PageSize)) {
	case "A4", "A5", "LETTER":
	default:
		return errors.New("render.pageSize must be A4, A5 or letter")
	}
	return nil
}
