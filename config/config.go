package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type OverpassConfig struct {
	Mirrors            []string `mapstructure:"mirrors"`
	MinRequestInterval int      `mapstructure:"minRequestIntervalMs"`
	RequestTimeout     int      `mapstructure:"requestTimeout"`
	QueryTimeout       int      `mapstructure:"queryTimeout"`
	UserAgent          string   `mapstructure:"userAgent"`
}

type NominatimConfig struct {
	BaseURL            string `mapstructure:"baseURL"`
	MinRequestInterval int    `mapstructure:"minRequestIntervalMs"`
	RequestTimeout     int    `mapstructure:"requestTimeout"`
	UserAgent          string `mapstructure:"userAgent"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Pprof struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"pprof"`
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Upstream struct {
		Overpass  OverpassConfig  `mapstructure:"overpass"`
		Nominatim NominatimConfig `mapstructure:"nominatim"`
	} `mapstructure:"upstream"`
	Cache struct {
		SearchTTL time.Duration `mapstructure:"searchTTL"`
		DetailTTL time.Duration `mapstructure:"detailTTL"`
	} `mapstructure:"cache"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}
