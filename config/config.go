// Package config - yaml конфигурация драйвера фаззинга
package config

import (
	"os"

	"simfuzz/entities"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type ModuleConfig struct {
	Addr string `yaml:"addr"`
	Port uint16 `yaml:"port"`
}

type Config struct {
	Module   ModuleConfig         `yaml:"module"`
	Campaign entities.InputConfig `yaml:"campaign"`
	// количество итераций; 0 - крутимся до сигнала
	Iterations uint64 `yaml:"iterations"`
	// верхняя граница генерируемых входов; модуль все равно обрежет по
	// буферу харнесса
	MaxInputSize int `yaml:"max_input_size"`
}

func Default() Config {
	return Config{
		Module: ModuleConfig{
			Addr: "127.0.0.1",
			Port: 9001,
		},
		Campaign: entities.InputConfig{
			LogLevel:       "info",
			TimeoutSeconds: 3.0,
		},
		MaxInputSize: 1024,
	}
}

func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.WithStack(err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.WithMessagef(err, "failed to parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Module.Addr == "" {
		return errors.New("module.addr must not be empty")
	}
	if c.Module.Port == 0 {
		return errors.New("module.port must not be zero")
	}
	if c.MaxInputSize <= 0 {
		return errors.New("max_input_size must be positive")
	}
	if c.Campaign.TimeoutSeconds <= 0 {
		return errors.New("campaign.timeout must be positive")
	}
	return nil
}
