package runtime

import "errors"

// Domain errors for the runtime package.
var (
	// ErrTopicNotMatched is returned when an inbound topic does not match
	// the <prefix>/output/<name>/<action> grammar.
	ErrTopicNotMatched = errors.New("runtime: topic does not match command grammar")

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("runtime: already started")
)
