package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes content to a temp file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
mqtt:
  broker:
    host: "broker.local"
    port: 8883
    tls: true
    client_id: "bridge-01"
  qos: 2
  topic_prefix: "home"
gpio_modules:
  - name: "rpi"
    backend: "raspberrypi"
  - name: "expander"
    backend: "mcp23017"
    options:
      bus: 1
      address: 0x20
digital_inputs:
  - name: "doorbell"
    module: "rpi"
    pin: 22
    pullup: true
digital_outputs:
  - name: "lamp1"
    module: "expander"
    pin: 3
    on_payload: "on"
    off_payload: "off"
    inverted: true
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if cfg.MQTT.QoS != 2 {
		t.Errorf("MQTT.QoS = %d, want 2", cfg.MQTT.QoS)
	}
	if cfg.MQTT.TopicPrefix != "home" {
		t.Errorf("MQTT.TopicPrefix = %q, want %q", cfg.MQTT.TopicPrefix, "home")
	}
	if len(cfg.Modules) != 2 {
		t.Fatalf("len(Modules) = %d, want 2", len(cfg.Modules))
	}
	if cfg.Modules[1].Backend != "mcp23017" {
		t.Errorf("Modules[1].Backend = %q, want %q", cfg.Modules[1].Backend, "mcp23017")
	}
	if len(cfg.DigitalInputs) != 1 || !cfg.DigitalInputs[0].Pullup {
		t.Errorf("DigitalInputs = %+v, want one pullup input", cfg.DigitalInputs)
	}
	if len(cfg.DigitalOutputs) != 1 || !cfg.DigitalOutputs[0].Inverted {
		t.Errorf("DigitalOutputs = %+v, want one inverted output", cfg.DigitalOutputs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_Defaults(t *testing.T) {
	content := `
gpio_modules:
  - name: "rpi"
    backend: "raspberrypi"
digital_inputs:
  - name: "switch1"
    module: "rpi"
    pin: 4
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("default host = %q, want localhost", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("default port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.MQTT.TopicPrefix != "pinbridge" {
		t.Errorf("default topic_prefix = %q, want pinbridge", cfg.MQTT.TopicPrefix)
	}
	if cfg.DigitalInputs[0].OnPayload != DefaultOnPayload {
		t.Errorf("default on_payload = %q, want %q", cfg.DigitalInputs[0].OnPayload, DefaultOnPayload)
	}
	if cfg.DigitalInputs[0].OffPayload != DefaultOffPayload {
		t.Errorf("default off_payload = %q, want %q", cfg.DigitalInputs[0].OffPayload, DefaultOffPayload)
	}
}

func TestLoad_DerivedClientID(t *testing.T) {
	content := `
mqtt:
  topic_prefix: "home"
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !strings.HasPrefix(cfg.MQTT.Broker.ClientID, "pinbridge-") {
		t.Errorf("ClientID = %q, want pinbridge-<hash>", cfg.MQTT.Broker.ClientID)
	}

	// Same prefix must derive the same ID on every load.
	cfg2, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MQTT.Broker.ClientID != cfg2.MQTT.Broker.ClientID {
		t.Errorf("ClientID not deterministic: %q vs %q", cfg.MQTT.Broker.ClientID, cfg2.MQTT.Broker.ClientID)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PINBRIDGE_MQTT_HOST", "override.local")
	t.Setenv("PINBRIDGE_MQTT_USERNAME", "bridge")
	t.Setenv("PINBRIDGE_MQTT_PASSWORD", "secret")

	cfg, err := Load(writeConfig(t, "mqtt:\n  broker:\n    host: \"file.local\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.MQTT.Broker.Host != "override.local" {
		t.Errorf("host = %q, want env override", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Auth.Username != "bridge" || cfg.MQTT.Auth.Password != "secret" {
		t.Errorf("auth = %+v, want env overrides", cfg.MQTT.Auth)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.MQTT.Broker.Port = 0 },
			wantErr: "mqtt.broker.port",
		},
		{
			name:    "empty prefix",
			mutate:  func(c *Config) { c.MQTT.TopicPrefix = "" },
			wantErr: "topic_prefix is required",
		},
		{
			name:    "wildcard prefix",
			mutate:  func(c *Config) { c.MQTT.TopicPrefix = "home/#" },
			wantErr: "wildcard",
		},
		{
			name: "duplicate module name",
			mutate: func(c *Config) {
				c.Modules = []ModuleConfig{
					{Name: "a", Backend: "dummy"},
					{Name: "a", Backend: "dummy"},
				}
			},
			wantErr: "duplicate name",
		},
		{
			name: "input references unknown module",
			mutate: func(c *Config) {
				c.DigitalInputs = []InputConfig{{Name: "in1", Module: "nope", Pin: 1}}
			},
			wantErr: "unknown module",
		},
		{
			name: "pullup and pulldown together",
			mutate: func(c *Config) {
				c.Modules = []ModuleConfig{{Name: "a", Backend: "dummy"}}
				c.DigitalInputs = []InputConfig{{Name: "in1", Module: "a", Pin: 1, Pullup: true, Pulldown: true}}
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "output references unknown module",
			mutate: func(c *Config) {
				c.DigitalOutputs = []OutputConfig{{Name: "out1", Module: "nope", Pin: 1}}
			},
			wantErr: "unknown module",
		},
		{
			name: "two raspberrypi modules",
			mutate: func(c *Config) {
				c.Modules = []ModuleConfig{
					{Name: "a", Backend: "raspberrypi"},
					{Name: "b", Backend: "raspberrypi"},
				}
			},
			wantErr: "at most one module may use the raspberrypi backend",
		},
		{
			name: "duplicate output name",
			mutate: func(c *Config) {
				c.Modules = []ModuleConfig{{Name: "a", Backend: "dummy"}}
				c.DigitalOutputs = []OutputConfig{
					{Name: "out1", Module: "a", Pin: 1},
					{Name: "out1", Module: "a", Pin: 2},
				}
			},
			wantErr: "duplicate name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := defaultConfig()
	cfg.Modules = []ModuleConfig{{Name: "rpi", Backend: "raspberrypi"}}
	cfg.DigitalInputs = []InputConfig{{Name: "in1", Module: "rpi", Pin: 4, Pullup: true}}
	cfg.DigitalOutputs = []OutputConfig{{Name: "out1", Module: "rpi", Pin: 17}}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}
