// Package config loads and validates pinbridge configuration.
//
// Configuration is a single YAML file describing the MQTT broker
// connection, the hardware backend modules, and the digital input and
// output pins. Values resolve in three layers: hardcoded defaults,
// the YAML file, then PINBRIDGE_* environment variable overrides.
//
// A minimal configuration:
//
//	mqtt:
//	  broker:
//	    host: "localhost"
//	    port: 1883
//	  topic_prefix: "home"
//	gpio_modules:
//	  - name: "raspberrypi"
//	    backend: "raspberrypi"
//	digital_outputs:
//	  - name: "lamp1"
//	    module: "raspberrypi"
//	    pin: 17
//	    on_payload: "ON"
//	    off_payload: "OFF"
//
// Validation is structural only (unique names, valid module references,
// sane broker settings). Whether a backend type exists is checked by the
// hardware package when the module is instantiated.
package config
