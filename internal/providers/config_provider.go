package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"travelogue/internal/structures"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("cache.ttl", 0)
	v.SetDefault("dataset.reloadInterval", "0s")

	_ = v.BindEnv("logger.level", "TRAVELOGUE_LOG_LEVEL")
	_ = v.BindEnv("dataset.filePath", "TRAVELOGUE_DATASET")
	_ = v.BindEnv("dataset.reloadInterval", "TRAVELOGUE_RELOAD_INTERVAL")
	_ = v.BindEnv("cache.enabled", "TRAVELOGUE_CACHE_ENABLED")
	_ = v.BindEnv("cache.size", "TRAVELOGUE_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "Travelogue"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
