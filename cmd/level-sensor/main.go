// Command level-sensor samples a liquid-level probe, shows the depth on the
// local display and periodically reports it to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/sweeney/level-sensor/internal/adc"
	"github.com/sweeney/level-sensor/internal/config"
	"github.com/sweeney/level-sensor/internal/display"
	"github.com/sweeney/level-sensor/internal/gpio"
	"github.com/sweeney/level-sensor/internal/logic"
	"github.com/sweeney/level-sensor/internal/mqtt"
	"github.com/sweeney/level-sensor/internal/status"
	"github.com/sweeney/level-sensor/internal/web"
)

// overrides holds command-line values that replace the config file.
// Empty strings and nil pointers leave the file value alone.
type overrides struct {
	variant  string
	broker   string
	http     string
	adc      string
	display  string
	logLevel string
	ledPin   *int
}

func (o overrides) apply(cfg *config.Config) {
	if o.variant != "" {
		cfg.Variant = o.variant
	}
	if o.broker != "" {
		cfg.MQTT.Broker = o.broker
	}
	switch o.http {
	case "":
	case "off":
		cfg.HTTP.Addr = ""
	default:
		cfg.HTTP.Addr = o.http
	}
	if o.adc != "" {
		cfg.ADC.Driver = o.adc
	}
	if o.display != "" {
		cfg.Display.Driver = o.display
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.ledPin != nil {
		cfg.LED.Pin = *o.ledPin
	}
}

func main() {
	configPath := flag.String("config", "", "YAML config file")
	var o overrides
	flag.StringVar(&o.variant, "variant", "", "Variant preset: averaging, instantaneous or counter")
	flag.StringVar(&o.broker, "broker", "", "MQTT broker address")
	flag.StringVar(&o.http, "http", "", `HTTP status address ("off" disables)`)
	flag.StringVar(&o.adc, "adc", "", "ADC driver: ads1115, serial or fake")
	flag.StringVar(&o.display, "display", "", "Display driver: ssd1306, log or none")
	flag.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	ledPin := flag.Int("led-pin", gpio.DefaultPinLED, "BCM pin for the activity LED (negative disables)")
	printRaw := flag.Bool("print-raw", false, "Print one sample and exit")

	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "led-pin" {
			o.ledPin = ledPin
		}
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	o.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fatal(fmt.Errorf("invalid config: %w", err))
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
	})))

	if err := run(cfg, *printRaw); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	slog.Error("fatal", "error", err)
	os.Exit(1)
}

func run(cfg *config.Config, printRaw bool) error {
	variant, err := cfg.ResolveVariant()
	if err != nil {
		return err
	}

	reader, err := openADC(cfg.ADC, variant)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer reader.Close()

	// Print raw mode
	if printRaw {
		raw, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read adc: %w", err)
		}
		depth := variant.Calibration.Convert(raw)
		fmt.Printf("raw: %d, depth: %d mm, display: %q\n", raw, depth, variant.Format.Render(depth))
		return nil
	}

	sink, lineHeight, closeSink, err := openDisplay(cfg.Display)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer closeSink()
	layout := display.DefaultLayout(lineHeight)
	layout.Glyphs = cfg.Display.Glyphs

	led, err := openLED(cfg.LED.Pin)
	if err != nil {
		return fmt.Errorf("init led: %w", err)
	}
	defer led.Close()

	publisher, err := mqtt.NewRealPublisher(mqtt.Options{
		Broker:         cfg.MQTT.Broker,
		ClientID:       cfg.MQTT.ClientID,
		Username:       cfg.MQTT.Username,
		Password:       cfg.MQTT.Password,
		TopicPrefix:    cfg.MQTT.TopicPrefix,
		ConnectTimeout: cfg.MQTT.ConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), cfg.Status(variant))
	tracker.SetMQTTConnected(publisher.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		slog.Warn("failed to publish startup event", "error", err)
	} else {
		slog.Info("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, slog.Default())
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server error", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		slog.Info("http status server listening", "addr", cfg.HTTP.Addr)
	}

	slog.Info("started",
		"variant", variant.Name,
		"averaging", variant.Averaging,
		"interval", variant.Interval,
		"every", variant.Every,
		"cadence", cfg.Loop.Cadence,
		"broker", cfg.MQTT.Broker,
		"adc", cfg.ADC.Driver,
		"display", cfg.Display.Driver,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(loop{
		reader:    reader,
		publisher: publisher,
		link:      publisher,
		sink:      sink,
		layout:    layout,
		led:       led,
		tracker:   tracker,
		channels:  cfg.MQTT.Channels,
		variant:   variant,
		cadence:   cfg.Loop.Cadence,
		now:       time.Now,
		after:     time.After,
		log:       slog.Default(),
	}, sigCh)
}

func openADC(c config.ADCConfig, v logic.Variant) (adc.Reader, error) {
	switch c.Driver {
	case config.ADCDriverADS1115:
		return adc.NewADS1115(adc.ADS1115Config{Bus: c.Bus, Address: c.Address, Channel: c.Channel})
	case config.ADCDriverSerial:
		return adc.NewSerial(c.SerialPort, c.Baud, time.Second)
	case config.ADCDriverFake:
		// An empty probe: every sample reads as zero depth.
		return adc.NewFakeReader(logic.Raw(v.Calibration.ZeroOffset)), nil
	}
	return nil, fmt.Errorf("unknown adc driver %q", c.Driver)
}

func openDisplay(c config.DisplayConfig) (display.Sink, int, func() error, error) {
	nop := func() error { return nil }
	lineHeight := 13 * c.Scale
	switch c.Driver {
	case config.DisplayDriverSSD1306:
		dev, err := display.NewSSD1306(c.Bus, c.Width, c.Height)
		if err != nil {
			return nil, 0, nil, err
		}
		canvas := display.NewCanvas(dev, c.Scale)
		return canvas, canvas.LineHeight(), dev.Close, nil
	case config.DisplayDriverLog:
		return display.NewLogSink(slog.Default()), lineHeight, nop, nil
	case config.DisplayDriverNone:
		return display.Nop{}, lineHeight, nop, nil
	}
	return nil, 0, nil, fmt.Errorf("unknown display driver %q", c.Driver)
}

func openLED(pin int) (gpio.Indicator, error) {
	if pin < 0 {
		return gpio.Nop{}, nil
	}
	return gpio.NewRealIndicator(pin)
}
