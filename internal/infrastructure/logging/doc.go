// Package logging provides structured logging for pinbridge.
//
// It wraps Go's standard log/slog package so every component logs with
// the same handler, level filtering, and default fields (service,
// version). Configure via the logging section of config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Never log broker credentials or other secrets.
package logging
