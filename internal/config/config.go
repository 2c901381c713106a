package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int64  `yaml:"speed_hz"` // e.g. 4000000
}

type Config struct {
	Driver     string `yaml:"driver"`      // "spi" | "sim" | "none"
	Pixels     int    `yaml:"pixels"`      // LEDs on the strip
	Brightness int    `yaml:"brightness"`  // global brightness 0..31
	ColorOrder string `yaml:"color_order"` // e.g. RGB, BGR
	FPS        int    `yaml:"fps"`
	Effect     string `yaml:"effect"` // effect started at boot, "" for none
	Addr       string `yaml:"addr"`   // HTTP listen address

	SPI SPI `yaml:"spi,omitempty"`
}

// Default is what the daemon runs with when no config file is present.
func Default() *Config {
	return &Config{
		Driver:     "sim",
		Pixels:     60,
		Brightness: 31,
		ColorOrder: "RGB",
		FPS:        30,
		Effect:     "rainbow",
		Addr:       ":8080",
		SPI: SPI{
			Dev:     "/dev/spidev0.0",
			SpeedHz: 4000000,
		},
	}
}

// Merge copies every non-zero field of o over c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.Driver != "" {
		c.Driver = o.Driver
	}
	if o.Pixels > 0 {
		c.Pixels = o.Pixels
	}
	if o.Brightness > 0 {
		c.Brightness = o.Brightness
	}
	if o.ColorOrder != "" {
		c.ColorOrder = o.ColorOrder
	}
	if o.FPS > 0 {
		c.FPS = o.FPS
	}
	if o.Effect != "" {
		c.Effect = o.Effect
	}
	if o.Addr != "" {
		c.Addr = o.Addr
	}
	if o.SPI.Dev != "" {
		c.SPI.Dev = o.SPI.Dev
	}
	if o.SPI.SpeedHz > 0 {
		c.SPI.SpeedHz = o.SPI.SpeedHz
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
