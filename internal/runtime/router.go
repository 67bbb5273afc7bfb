package runtime

import (
	"fmt"
	"strings"

	"github.com/stonearc/pinbridge/internal/infrastructure/mqtt"
)

// Action classifies an inbound command topic.
type Action int

const (
	ActionUnrecognized Action = iota

	// ActionSet sets an output to on/off by matching the payload against
	// the output's configured on/off payload strings.
	ActionSet

	// ActionPulseOn turns an output on for a payload-given number of
	// milliseconds, then off.
	ActionPulseOn

	// ActionPulseOff turns an output off for a payload-given number of
	// milliseconds, then on.
	ActionPulseOff
)

// String returns the action name for logging.
func (a Action) String() string {
	switch a {
	case ActionSet:
		return "set"
	case ActionPulseOn:
		return "pulse_on"
	case ActionPulseOff:
		return "pulse_off"
	default:
		return "unrecognized"
	}
}

// ParseTopic classifies an inbound topic against the configured prefix.
//
// The only recognised pattern is:
//
//	<prefix>/output/<name>/<action>
//
// with action one of set, set_on_ms, set_off_ms. Matching is anchored and
// exact per segment: a missing action, an extra segment, an empty name, or
// a diverging prefix all yield ErrTopicNotMatched. The function has no
// side effects.
//
// Returns:
//   - string: The target output name
//   - Action: The classified action
//   - error: ErrTopicNotMatched (wrapped with the topic) on any deviation
func ParseTopic(prefix, topic string) (string, Action, error) {
	prefixSegments := strings.Split(prefix, "/")
	segments := strings.Split(topic, "/")

	// <prefix segments> + output + name + action, exactly.
	if len(segments) != len(prefixSegments)+3 {
		return "", ActionUnrecognized, fmt.Errorf("%w: %q", ErrTopicNotMatched, topic)
	}
	for i, ps := range prefixSegments {
		if segments[i] != ps {
			return "", ActionUnrecognized, fmt.Errorf("%w: %q", ErrTopicNotMatched, topic)
		}
	}
	if segments[len(prefixSegments)] != mqtt.OutputSegment {
		return "", ActionUnrecognized, fmt.Errorf("%w: %q", ErrTopicNotMatched, topic)
	}

	name := segments[len(prefixSegments)+1]
	if name == "" {
		return "", ActionUnrecognized, fmt.Errorf("%w: %q", ErrTopicNotMatched, topic)
	}

	switch segments[len(prefixSegments)+2] {
	case mqtt.SetAction:
		return name, ActionSet, nil
	case mqtt.SetOnMsAction:
		return name, ActionPulseOn, nil
	case mqtt.SetOffMsAction:
		return name, ActionPulseOff, nil
	default:
		return "", ActionUnrecognized, fmt.Errorf("%w: %q", ErrTopicNotMatched, topic)
	}
}
