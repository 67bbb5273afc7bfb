package mqtt

import "fmt"

// Topic segments and actions understood by the bridge.
//
// All topics live under the configured prefix:
//
//	<prefix>/output/<name>/set         set an output to on/off by payload
//	<prefix>/output/<name>/set_on_ms   pulse an output on for N milliseconds
//	<prefix>/output/<name>/set_off_ms  pulse an output off for N milliseconds
//	<prefix>/input/<name>              input state transitions (published)
//	<prefix>/status                    bridge availability (retained, LWT)
const (
	OutputSegment = "output"
	InputSegment  = "input"
	StatusSegment = "status"

	SetAction      = "set"
	SetOnMsAction  = "set_on_ms"
	SetOffMsAction = "set_off_ms"
)

// Availability payloads published on the status topic.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Topics builds pinbridge topic strings under a configured prefix.
//
//	topics := mqtt.Topics{Prefix: "home"}
//	topics.InputState("doorbell") // "home/input/doorbell"
type Topics struct {
	Prefix string
}

// InputState returns the topic an input's transitions are published on.
//
// Example: home/input/doorbell
func (t Topics) InputState(name string) string {
	return fmt.Sprintf("%s/%s/%s", t.Prefix, InputSegment, name)
}

// OutputCommand returns the command topic for an output and action.
//
// Example: home/output/lamp1/set
func (t Topics) OutputCommand(name, action string) string {
	return fmt.Sprintf("%s/%s/%s/%s", t.Prefix, OutputSegment, name, action)
}

// Status returns the bridge availability topic.
//
// Example: home/status
func (t Topics) Status() string {
	return fmt.Sprintf("%s/%s", t.Prefix, StatusSegment)
}

// All returns the wildcard pattern matching every topic under the prefix.
//
// Example: home/#
func (t Topics) All() string {
	return t.Prefix + "/#"
}
