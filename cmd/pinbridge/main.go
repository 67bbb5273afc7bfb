// pinbridge bridges an MQTT broker and GPIO pins.
//
// It exposes configured digital outputs as command topics and publishes
// digital input transitions as state topics, letting a small controller
// board drive relays and report sensors over a single broker connection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stonearc/pinbridge/internal/infrastructure/config"
	"github.com/stonearc/pinbridge/internal/infrastructure/logging"
	"github.com/stonearc/pinbridge/internal/infrastructure/mqtt"
	"github.com/stonearc/pinbridge/internal/runtime"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting pinbridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	broker := &brokerAdapter{client: mqttClient, qos: byte(cfg.MQTT.QoS)}
	rt, err := runtime.New(runtime.Options{
		Config: cfg,
		Broker: broker,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("creating runtime: %w", err)
	}
	// Stop before the MQTT defer runs so pollers never publish through a
	// closed client.
	defer func() {
		log.Info("stopping runtime")
		rt.Stop()
	}()

	if err := rt.Start(ctx); err != nil {
		return fmt.Errorf("starting runtime: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses PINBRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("PINBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// brokerAdapter adapts the infrastructure MQTT client to the runtime's
// Broker interface. The primary difference is the Subscribe handler
// signature:
// - Infrastructure mqtt: func(topic string, payload []byte) error
// - Runtime expects: func(topic string, payload []byte)
type brokerAdapter struct {
	client *mqtt.Client
	qos    byte
}

// PublishString implements runtime.Broker.
func (a *brokerAdapter) PublishString(topic, payload string, retained bool) error {
	return a.client.PublishString(topic, payload, a.qos, retained)
}

// Subscribe implements runtime.Broker.
func (a *brokerAdapter) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	// Wrap the void handler to return nil error (runtime handlers don't
	// return errors)
	return a.client.Subscribe(topic, a.qos, func(t string, p []byte) error {
		handler(t, p)
		return nil
	})
}
