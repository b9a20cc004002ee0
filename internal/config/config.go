package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/haytac/social-post-bot/internal/formatter"
	"github.com/haytac/social-post-bot/internal/logging"
	"github.com/haytac/social-post-bot/internal/proxy"
)

// TelegramConfig holds Bot API delivery settings.
type TelegramConfig struct {
	BotToken      string        `mapstructure:"bot_token"`
	DefaultChatID string        `mapstructure:"default_chat_id"`
	Proxy         *proxy.Config `mapstructure:"proxy"`
}

// AppConfig holds the application configuration.
type AppConfig struct {
	Log        logging.Config    `mapstructure:"log"`
	ListenAddr string            `mapstructure:"listen_addr"`
	Formatter  formatter.Options `mapstructure:"formatter"`
	Telegram   TelegramConfig    `mapstructure:"telegram"`
	DryRun     bool              // Not from config file, set by flag
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("formatter.locale", "en")
	v.SetDefault("formatter.expand_shortcodes", false)
	v.SetDefault("formatter.sanitize_content", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.default_chat_id", "")
	// Registered so SOCIAL_BOT_TELEGRAM_PROXY_* env vars reach Unmarshal.
	v.SetDefault("telegram.proxy.type", "")
	v.SetDefault("telegram.proxy.address", "")
	v.SetDefault("telegram.proxy.username", "")
	v.SetDefault("telegram.proxy.password", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.social-post-bot")
		v.AddConfigPath("/etc/social-post-bot/")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	v.SetEnvPrefix("SOCIAL_BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
