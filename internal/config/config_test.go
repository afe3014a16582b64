package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/level-sensor/internal/logic"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "level-sensor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, logic.VariantAveraging, cfg.Variant)
	assert.Equal(t, 500*time.Millisecond, cfg.Loop.Cadence)
	assert.Equal(t, "level/sensor", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "depth_mm", cfg.MQTT.Channels.Depth)
	assert.Equal(t, "raw_16bit", cfg.MQTT.Channels.Raw)
	assert.Equal(t, ADCDriverADS1115, cfg.ADC.Driver)
	assert.Equal(t, uint16(0x48), cfg.ADC.Address)
	assert.Equal(t, 128, cfg.Display.Width)
	assert.Equal(t, 64, cfg.Display.Height)
	assert.Equal(t, "v", cfg.Display.Glyphs.Sent)
	assert.Equal(t, "x", cfg.Display.Glyphs.Disconnected)
	assert.Equal(t, -1, cfg.LED.Pin)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EmptyFilename(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, logic.VariantAveraging, cfg.Variant)
}

func TestLoad_ValidYAML(t *testing.T) {
	path := writeConfig(t, `
variant: instantaneous

calibration:
  zero_offset: 6400
  scale_numerator: 643
  scale_denominator: 250

schedule:
  interval: 30s

loop:
  cadence: 250ms

mqtt:
  broker: "tcp://192.168.1.200:1883"
  topic_prefix: "tank/north"
  channels:
    depth: depth

adc:
  driver: serial
  serial_port: /dev/ttyACM0
  baud: 115200

display:
  driver: log
  glyphs:
    sent: "*"

http:
  addr: ":9090"

led:
  pin: 17

log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "instantaneous", cfg.Variant)
	assert.Equal(t, 250*time.Millisecond, cfg.Loop.Cadence)
	assert.Equal(t, "tcp://192.168.1.200:1883", cfg.MQTT.Broker)
	assert.Equal(t, "tank/north", cfg.MQTT.TopicPrefix)
	assert.Equal(t, "depth", cfg.MQTT.Channels.Depth)
	assert.Equal(t, "raw_16bit", cfg.MQTT.Channels.Raw, "missing channel keeps the default")
	assert.Equal(t, ADCDriverSerial, cfg.ADC.Driver)
	assert.Equal(t, 115200, cfg.ADC.Baud)
	assert.Equal(t, DisplayDriverLog, cfg.Display.Driver)
	assert.Equal(t, "*", cfg.Display.Glyphs.Sent)
	assert.Equal(t, "x", cfg.Display.Glyphs.Disconnected)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 17, cfg.LED.Pin)

	v, err := cfg.ResolveVariant()
	require.NoError(t, err)
	assert.Equal(t, 6400, v.Calibration.ZeroOffset)
	assert.Equal(t, 30*time.Second, v.Interval)
	assert.Equal(t, "---- cm", v.Format.BelowZero)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  broker: "tcp://broker:1883"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, logic.VariantAveraging, cfg.Variant)
	assert.Equal(t, DefaultCadence, cfg.Loop.Cadence)
	assert.Equal(t, 2, cfg.Display.Scale)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "variant: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveVariantScheduleOverride(t *testing.T) {
	cfg := Default()
	cfg.Schedule.Every = 10

	v, err := cfg.ResolveVariant()
	require.NoError(t, err)
	assert.Equal(t, 10, v.Every)
	assert.Zero(t, v.Interval)

	off := false
	cfg = Default()
	cfg.Schedule.Averaging = &off
	v, err = cfg.ResolveVariant()
	require.NoError(t, err)
	assert.False(t, v.Averaging)
	assert.Equal(t, 60*time.Second, v.Interval)
}

func TestResolveVariantCounterToClock(t *testing.T) {
	cfg := Default()
	cfg.Variant = logic.VariantCounter
	cfg.Schedule.Interval = time.Minute

	v, err := cfg.ResolveVariant()
	require.NoError(t, err)
	assert.Zero(t, v.Every)
	assert.Equal(t, time.Minute, v.Interval)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown variant", func(c *Config) { c.Variant = "nope" }},
		{"zero denominator", func(c *Config) {
			c.Calibration = &logic.Calibration{ZeroOffset: 6425, ScaleNumerator: 1}
		}},
		{"both schedules", func(c *Config) {
			c.Schedule.Every = 5
			c.Schedule.Interval = time.Second
		}},
		{"zero cadence", func(c *Config) { c.Loop.Cadence = 0 }},
		{"unknown adc driver", func(c *Config) { c.ADC.Driver = "spi" }},
		{"serial without port", func(c *Config) {
			c.ADC.Driver = ADCDriverSerial
			c.ADC.SerialPort = ""
		}},
		{"unknown display driver", func(c *Config) { c.Display.Driver = "lcd" }},
		{"zero scale", func(c *Config) { c.Display.Scale = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }},
		{"empty channel", func(c *Config) { c.MQTT.Channels.Raw = "" }},
		{"format too wide", func(c *Config) {
			f := logic.Format{
				BelowZero:     "below zero!!",
				AboveMax:      "HIGH",
				Centimetres:   "%2d.%1dcm",
				Metres:        "%2d.%02dm",
				MetreDecimals: 2,
				MaxDepth:      logic.DefaultMaxDepth,
				Width:         8,
			}
			c.Format = &f
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	cfg := Default()
	cfg.Variant = logic.VariantCounter
	cfg.MQTT.Broker = "tcp://saved:1883"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestStatus(t *testing.T) {
	cfg := Default()
	v, err := cfg.ResolveVariant()
	require.NoError(t, err)

	sc := cfg.Status(v)
	assert.Equal(t, "averaging", sc.Variant)
	assert.Equal(t, 6425, sc.ZeroOffset)
	assert.Equal(t, 250, sc.ScaleNumerator)
	assert.Equal(t, 643, sc.ScaleDenominator)
	assert.True(t, sc.Averaging)
	assert.Equal(t, int64(60000), sc.IntervalMs)
	assert.Equal(t, int64(500), sc.CadenceMs)
	assert.Equal(t, ":8080", sc.HTTPAddr)
}
