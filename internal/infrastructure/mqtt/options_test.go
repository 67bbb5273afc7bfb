package mqtt

import (
	"testing"

	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

func testMQTTConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "pinbridge-test",
		},
		QoS:         1,
		TopicPrefix: "home",
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(testMQTTConfig())

	if len(opts.Servers) != 1 {
		t.Fatalf("len(Servers) = %d, want 1", len(opts.Servers))
	}
	if got, want := opts.Servers[0].String(), "tcp://127.0.0.1:1883"; got != want {
		t.Errorf("broker URL = %q, want %q", got, want)
	}
	if opts.ClientID != "pinbridge-test" {
		t.Errorf("ClientID = %q, want %q", opts.ClientID, "pinbridge-test")
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect = false, want true")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testMQTTConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	if got, want := opts.Servers[0].Scheme, "ssl"; got != want {
		t.Errorf("scheme = %q, want %q", got, want)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig = nil, want configured")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testMQTTConfig())
	configureLWT(opts, "home")

	if !opts.WillEnabled {
		t.Fatal("WillEnabled = false, want true")
	}
	if got, want := opts.WillTopic, "home/status"; got != want {
		t.Errorf("WillTopic = %q, want %q", got, want)
	}
	if got, want := string(opts.WillPayload), StatusOffline; got != want {
		t.Errorf("WillPayload = %q, want %q", got, want)
	}
	if !opts.WillRetained {
		t.Error("WillRetained = false, want true")
	}
}
