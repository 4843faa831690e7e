package config

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	tokensaleconfig "github.com/gaze-network/tokensale/modules/tokensale/config"
	"github.com/gaze-network/tokensale/pkg/logger"
	"github.com/gaze-network/tokensale/pkg/logger/slogx"
	"github.com/gaze-network/tokensale/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServer{
			Port: 8080,
		},
	}
)

type Config struct {
	Logger        logger.Config `mapstructure:"logger"`
	HTTPServer    HTTPServer    `mapstructure:"http_server"`
	EnableModules []string      `mapstructure:"enable_modules"`
	Modules       Modules       `mapstructure:"modules"`
}

type HTTPServer struct {
	Port   int                  `mapstructure:"port"`
	Logger requestlogger.Config `mapstructure:"logger"`
}

type Modules struct {
	Tokensale tokensaleconfig.Config `mapstructure:"tokensale"`
}

// BindPFlag binds a cobra flag to a configuration key.
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Failed to bind flag to configuration", slogx.Error(err), slogx.String("key", key))
	}
}

// Parse reads the configuration from the given file (or ./config.yaml by
// default) and environment variables. Parsing happens at most once.
func Parse(configFile string) Config {
	ctx := logger.WithContext(context.Background(), slogx.String("package", "config"))
	configOnce.Do(func() {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			viper.AddConfigPath("./")
			viper.SetConfigName("config")
		}

		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		if err := viper.ReadInConfig(); err != nil {
			var errNotfound viper.ConfigFileNotFoundError
			if errors.As(err, &errNotfound) {
				logger.WarnContext(ctx, "config file not found, use default value", slogx.Error(err))
			} else {
				logger.PanicContext(ctx, "invalid config file", slogx.Error(err))
			}
		}

		if err := viper.Unmarshal(&config); err != nil {
			logger.PanicContext(ctx, "failed to unmarshal config", slogx.Error(err))
		}
	})

	return *config
}

// Load returns the parsed configuration.
func Load() Config {
	return Parse("")
}
