// Package mqtt provides MQTT client connectivity for pinbridge.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for availability detection
//   - Connection health monitoring
//
// # Topic structure
//
// All topics live under the configured prefix (see Topics):
//
//	<prefix>/output/<name>/set         commands to set an output
//	<prefix>/output/<name>/set_on_ms   timed on pulses
//	<prefix>/output/<name>/set_off_ms  timed off pulses
//	<prefix>/input/<name>              published input transitions
//	<prefix>/status                    retained online/offline availability
//
// # Security Considerations
//
//   - TLS is recommended for anything beyond a LAN broker (broker.tls: true)
//   - Credentials are validated against the broker's ACL
//   - Payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topics := mqtt.Topics{Prefix: cfg.MQTT.TopicPrefix}
//	err = client.Subscribe(topics.All(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("received: %s = %s", topic, payload)
//	        return nil
//	    })
package mqtt
