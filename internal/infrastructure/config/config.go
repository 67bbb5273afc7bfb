package config

import (
	"crypto/sha1" //nolint:gosec // Used for client ID derivation, not security
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for pinbridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	MQTT           MQTTConfig     `yaml:"mqtt"`
	Logging        LoggingConfig  `yaml:"logging"`
	Modules        []ModuleConfig `yaml:"gpio_modules"`
	DigitalInputs  []InputConfig  `yaml:"digital_inputs"`
	DigitalOutputs []OutputConfig `yaml:"digital_outputs"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker      MQTTBrokerConfig    `yaml:"broker"`
	Auth        MQTTAuthConfig      `yaml:"auth"`
	QoS         int                 `yaml:"qos"`
	TopicPrefix string              `yaml:"topic_prefix"`
	Reconnect   MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ModuleConfig describes one hardware backend instance.
//
// Backend selects the constructor from the static backend registry
// (e.g. "raspberrypi", "mcp23017", "dummy"). Options carries
// backend-specific settings such as the I2C bus number.
type ModuleConfig struct {
	Name    string         `yaml:"name"`
	Backend string         `yaml:"backend"`
	Options map[string]any `yaml:"options"`
}

// InputConfig describes one digital input pin to poll.
type InputConfig struct {
	Name       string `yaml:"name"`
	Module     string `yaml:"module"`
	Pin        int    `yaml:"pin"`
	Pullup     bool   `yaml:"pullup"`
	Pulldown   bool   `yaml:"pulldown"`
	OnPayload  string `yaml:"on_payload"`
	OffPayload string `yaml:"off_payload"`
}

// OutputConfig describes one digital output pin controllable over MQTT.
type OutputConfig struct {
	Name       string `yaml:"name"`
	Module     string `yaml:"module"`
	Pin        int    `yaml:"pin"`
	OnPayload  string `yaml:"on_payload"`
	OffPayload string `yaml:"off_payload"`
	Inverted   bool   `yaml:"inverted"`
}

// Default payloads applied when an input or output omits them.
const (
	DefaultOnPayload  = "ON"
	DefaultOffPayload = "OFF"
)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: PINBRIDGE_SECTION_KEY
// For example: PINBRIDGE_MQTT_HOST, PINBRIDGE_MQTT_PASSWORD
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Fill in derived and per-entry defaults
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "localhost",
				Port: 1883,
			},
			QoS:         1,
			TopicPrefix: "pinbridge",
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: PINBRIDGE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PINBRIDGE_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("PINBRIDGE_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("PINBRIDGE_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("PINBRIDGE_TOPIC_PREFIX"); v != "" {
		cfg.MQTT.TopicPrefix = v
	}
}

// applyDefaults fills in values derivable from other settings.
func applyDefaults(cfg *Config) {
	// Client ID defaults to a stable hash of the topic prefix so that two
	// bridges with different prefixes never collide on the broker.
	if cfg.MQTT.Broker.ClientID == "" {
		cfg.MQTT.Broker.ClientID = deriveClientID(cfg.MQTT.TopicPrefix)
	}

	for i := range cfg.DigitalInputs {
		if cfg.DigitalInputs[i].OnPayload == "" {
			cfg.DigitalInputs[i].OnPayload = DefaultOnPayload
		}
		if cfg.DigitalInputs[i].OffPayload == "" {
			cfg.DigitalInputs[i].OffPayload = DefaultOffPayload
		}
	}
	for i := range cfg.DigitalOutputs {
		if cfg.DigitalOutputs[i].OnPayload == "" {
			cfg.DigitalOutputs[i].OnPayload = DefaultOnPayload
		}
		if cfg.DigitalOutputs[i].OffPayload == "" {
			cfg.DigitalOutputs[i].OffPayload = DefaultOffPayload
		}
	}
}

// deriveClientID builds a deterministic MQTT client ID from the topic prefix.
func deriveClientID(topicPrefix string) string {
	sum := sha1.Sum([]byte(topicPrefix)) //nolint:gosec // Identifier, not a credential
	return "pinbridge-" + hex.EncodeToString(sum[:])
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if err := validateTopicPrefix(c.MQTT.TopicPrefix); err != nil {
		errs = append(errs, err.Error())
	}

	// Module validation
	moduleNames := make(map[string]bool, len(c.Modules))
	rpiModules := 0
	for i, m := range c.Modules {
		if m.Name == "" {
			errs = append(errs, fmt.Sprintf("gpio_modules[%d].name is required", i))
			continue
		}
		if m.Backend == "" {
			errs = append(errs, fmt.Sprintf("gpio_modules[%d] (%s): backend is required", i, m.Name))
		}
		if m.Backend == "raspberrypi" {
			rpiModules++
		}
		if moduleNames[m.Name] {
			errs = append(errs, fmt.Sprintf("gpio_modules: duplicate name %q", m.Name))
		}
		moduleNames[m.Name] = true
	}
	// The raspberrypi backend maps the SoC's GPIO registers process-wide,
	// so a second instance would share and tear down the same mapping.
	if rpiModules > 1 {
		errs = append(errs, "gpio_modules: at most one module may use the raspberrypi backend")
	}

	// Input validation
	inputNames := make(map[string]bool, len(c.DigitalInputs))
	for i, in := range c.DigitalInputs {
		prefix := fmt.Sprintf("digital_inputs[%d]", i)
		if in.Name == "" {
			errs = append(errs, prefix+".name is required")
		} else if inputNames[in.Name] {
			errs = append(errs, fmt.Sprintf("digital_inputs: duplicate name %q", in.Name))
		}
		inputNames[in.Name] = true
		if !moduleNames[in.Module] {
			errs = append(errs, fmt.Sprintf("%s (%s): unknown module %q", prefix, in.Name, in.Module))
		}
		if in.Pin < 0 {
			errs = append(errs, fmt.Sprintf("%s (%s): pin must not be negative", prefix, in.Name))
		}
		if in.Pullup && in.Pulldown {
			errs = append(errs, fmt.Sprintf("%s (%s): pullup and pulldown are mutually exclusive", prefix, in.Name))
		}
	}

	// Output validation
	outputNames := make(map[string]bool, len(c.DigitalOutputs))
	for i, out := range c.DigitalOutputs {
		prefix := fmt.Sprintf("digital_outputs[%d]", i)
		if out.Name == "" {
			errs = append(errs, prefix+".name is required")
		} else if outputNames[out.Name] {
			errs = append(errs, fmt.Sprintf("digital_outputs: duplicate name %q", out.Name))
		}
		outputNames[out.Name] = true
		if !moduleNames[out.Module] {
			errs = append(errs, fmt.Sprintf("%s (%s): unknown module %q", prefix, out.Name, out.Module))
		}
		if out.Pin < 0 {
			errs = append(errs, fmt.Sprintf("%s (%s): pin must not be negative", prefix, out.Name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// validateTopicPrefix rejects prefixes that would break topic construction.
func validateTopicPrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("mqtt.topic_prefix is required")
	case strings.ContainsAny(prefix, "+#"):
		return fmt.Errorf("mqtt.topic_prefix must not contain wildcard characters")
	case strings.HasPrefix(prefix, "/") || strings.HasSuffix(prefix, "/"):
		return fmt.Errorf("mqtt.topic_prefix must not start or end with '/'")
	}
	return nil
}
