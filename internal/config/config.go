// Package config loads daemon configuration from defaults, an optional YAML
// file and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/level-sensor/internal/adc"
	"github.com/sweeney/level-sensor/internal/display"
	"github.com/sweeney/level-sensor/internal/gpio"
	"github.com/sweeney/level-sensor/internal/logic"
	"github.com/sweeney/level-sensor/internal/mqtt"
	"github.com/sweeney/level-sensor/internal/status"
)

// ADC drivers.
const (
	ADCDriverADS1115 = "ads1115"
	ADCDriverSerial  = "serial"
	ADCDriverFake    = "fake"
)

// Display drivers.
const (
	DisplayDriverSSD1306 = "ssd1306"
	DisplayDriverLog     = "log"
	DisplayDriverNone    = "none"
)

// DefaultCadence is the loop period.
const DefaultCadence = 500 * time.Millisecond

// Config represents the daemon configuration.
type Config struct {
	Variant     string             `yaml:"variant"`
	Calibration *logic.Calibration `yaml:"calibration,omitempty"` // replaces the preset calibration
	Schedule    ScheduleConfig     `yaml:"schedule"`
	Format      *logic.Format      `yaml:"format,omitempty"` // replaces the preset templates
	Loop        LoopConfig         `yaml:"loop"`
	MQTT        MQTTConfig         `yaml:"mqtt"`
	ADC         ADCConfig          `yaml:"adc"`
	Display     DisplayConfig      `yaml:"display"`
	HTTP        HTTPConfig         `yaml:"http"`
	LED         LEDConfig          `yaml:"led"`
	Log         LogConfig          `yaml:"log"`
}

// ScheduleConfig overrides the preset schedule. Zero values keep the preset.
type ScheduleConfig struct {
	Averaging *bool         `yaml:"averaging,omitempty"`
	Interval  time.Duration `yaml:"interval,omitempty"`
	Every     int           `yaml:"every,omitempty"`
}

// LoopConfig contains the control loop timing.
type LoopConfig struct {
	Cadence time.Duration `yaml:"cadence"`
}

// MQTTConfig contains broker connection settings.
type MQTTConfig struct {
	Broker         string        `yaml:"broker"`
	ClientID       string        `yaml:"client_id"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	TopicPrefix    string        `yaml:"topic_prefix"`
	Channels       mqtt.Channels `yaml:"channels"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// ADCConfig selects and configures the converter.
type ADCConfig struct {
	Driver     string `yaml:"driver"`
	Bus        string `yaml:"bus"`
	Address    uint16 `yaml:"address"`
	Channel    int    `yaml:"channel"`
	SerialPort string `yaml:"serial_port"`
	Baud       int    `yaml:"baud"`
}

// DisplayConfig selects and configures the display.
type DisplayConfig struct {
	Driver string         `yaml:"driver"`
	Bus    string         `yaml:"bus"`
	Width  int            `yaml:"width"`
	Height int            `yaml:"height"`
	Scale  int            `yaml:"scale"`
	Glyphs display.Glyphs `yaml:"glyphs"`
}

// HTTPConfig contains the status server address.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the server
}

// LEDConfig contains the activity LED line. A negative pin disables it.
type LEDConfig struct {
	Pin int `yaml:"pin"`
}

// LogConfig contains the log level name.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Variant: logic.VariantAveraging,
		Loop:    LoopConfig{Cadence: DefaultCadence},
		MQTT: MQTTConfig{
			Broker:         "tcp://localhost:1883",
			ClientID:       "level-sensor",
			TopicPrefix:    mqtt.DefaultTopicPrefix,
			Channels:       mqtt.DefaultChannels(),
			ConnectTimeout: 5 * time.Second,
		},
		ADC: ADCConfig{
			Driver:     ADCDriverADS1115,
			Address:    adc.DefaultI2CAddress,
			Channel:    adc.DefaultChannel,
			SerialPort: "/dev/ttyUSB0",
			Baud:       adc.DefaultBaudRate,
		},
		Display: DisplayConfig{
			Driver: DisplayDriverSSD1306,
			Width:  128,
			Height: 64,
			Scale:  2,
			Glyphs: display.DefaultGlyphs(),
		},
		HTTP: HTTPConfig{Addr: ":8080"},
		LED:  LEDConfig{Pin: gpio.DefaultPinLED},
		Log:  LogConfig{Level: "info"},
	}
}

// Load loads configuration from a YAML file. An empty filename or a missing
// file yields the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults fills fields that a partial file left empty.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Variant == "" {
		c.Variant = def.Variant
	}
	if c.Loop.Cadence == 0 {
		c.Loop.Cadence = def.Loop.Cadence
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = def.MQTT.TopicPrefix
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}
	if c.MQTT.Channels.Depth == "" {
		c.MQTT.Channels.Depth = def.MQTT.Channels.Depth
	}
	if c.MQTT.Channels.Raw == "" {
		c.MQTT.Channels.Raw = def.MQTT.Channels.Raw
	}
	if c.ADC.Driver == "" {
		c.ADC.Driver = def.ADC.Driver
	}
	if c.ADC.Address == 0 {
		c.ADC.Address = def.ADC.Address
	}
	if c.ADC.Baud == 0 {
		c.ADC.Baud = def.ADC.Baud
	}
	if c.Display.Driver == "" {
		c.Display.Driver = def.Display.Driver
	}
	if c.Display.Width == 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = def.Display.Height
	}
	if c.Display.Scale == 0 {
		c.Display.Scale = def.Display.Scale
	}
	if c.Display.Glyphs.Sent == "" {
		c.Display.Glyphs.Sent = def.Display.Glyphs.Sent
	}
	if c.Display.Glyphs.Disconnected == "" {
		c.Display.Glyphs.Disconnected = def.Display.Glyphs.Disconnected
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// ResolveVariant applies the overrides to the named preset and validates the
// result.
func (c *Config) ResolveVariant() (logic.Variant, error) {
	v, err := logic.Preset(c.Variant)
	if err != nil {
		return logic.Variant{}, err
	}
	if c.Calibration != nil {
		v.Calibration = *c.Calibration
	}
	if c.Format != nil {
		v.Format = *c.Format
	}
	if c.Schedule.Averaging != nil {
		v.Averaging = *c.Schedule.Averaging
	}
	switch {
	case c.Schedule.Every > 0 && c.Schedule.Interval > 0:
		return logic.Variant{}, errors.New("schedule: set either interval or every, not both")
	case c.Schedule.Every > 0:
		v.Every = c.Schedule.Every
		v.Interval = 0
	case c.Schedule.Interval > 0:
		v.Interval = c.Schedule.Interval
		v.Every = 0
	}
	if err := v.Validate(); err != nil {
		return logic.Variant{}, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	return v, nil
}

// SlogLevel parses the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// Validate checks the whole configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.ResolveVariant(); err != nil {
		errs = append(errs, err)
	}
	if c.Loop.Cadence <= 0 {
		errs = append(errs, errors.New("loop: cadence must be positive"))
	}
	if c.MQTT.Channels.Depth == "" || c.MQTT.Channels.Raw == "" {
		errs = append(errs, errors.New("mqtt: channel names must not be empty"))
	}
	switch c.ADC.Driver {
	case ADCDriverADS1115, ADCDriverFake:
	case ADCDriverSerial:
		if c.ADC.SerialPort == "" {
			errs = append(errs, errors.New("adc: serial driver needs a serial_port"))
		}
	default:
		errs = append(errs, fmt.Errorf("adc: unknown driver %q", c.ADC.Driver))
	}
	switch c.Display.Driver {
	case DisplayDriverSSD1306:
		if c.Display.Width <= 0 || c.Display.Height <= 0 {
			errs = append(errs, errors.New("display: width and height must be positive"))
		}
		if c.Display.Scale < 1 {
			errs = append(errs, errors.New("display: scale must be at least 1"))
		}
	case DisplayDriverLog, DisplayDriverNone:
	default:
		errs = append(errs, fmt.Errorf("display: unknown driver %q", c.Display.Driver))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Status returns the configuration shown on the status surface for the
// resolved variant.
func (c *Config) Status(v logic.Variant) status.Config {
	return status.Config{
		Variant:          v.Name,
		ZeroOffset:       v.Calibration.ZeroOffset,
		ScaleNumerator:   v.Calibration.ScaleNumerator,
		ScaleDenominator: v.Calibration.ScaleDenominator,
		Averaging:        v.Averaging,
		IntervalMs:       v.Interval.Milliseconds(),
		Every:            v.Every,
		CadenceMs:        c.Loop.Cadence.Milliseconds(),
		Broker:           c.MQTT.Broker,
		TopicPrefix:      c.MQTT.TopicPrefix,
		HTTPAddr:         c.HTTP.Addr,
	}
}
