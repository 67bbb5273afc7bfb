// Package runtime is the orchestration core of pinbridge.
//
// It connects the configured hardware modules to the message broker:
// one poller per digital input publishes state transitions, one
// dispatcher per hardware module serializes output writes, and timed
// pulse commands run as independent tasks. Every background goroutine
// is registered with the Supervisor, which reaps finished tasks and
// reports failures without taking down its siblings.
//
// Inbound command topics follow the grammar
//
//	<prefix>/output/<name>/set
//	<prefix>/output/<name>/set_on_ms
//	<prefix>/output/<name>/set_off_ms
//
// and input state is published on <prefix>/input/<name>.
package runtime
