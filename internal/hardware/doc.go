// Package hardware provides the pluggable pin backends for pinbridge.
//
// Each backend implements the Module capability interface (configure,
// read, write, close) over a different transport: the Pi's memory-mapped
// GPIO header, an MCP23017 I2C expander, or an in-memory dummy for
// development. Backends self-register into a static registry keyed by
// backend-type identifier; New() resolves a config.ModuleConfig to a
// ready-to-use instance.
//
// Modules are constructed once at startup and shared by every polling
// and dispatching loop that touches their pins. The interface makes no
// serialisation promises — callers that need ordered writes must provide
// their own queueing (the runtime package does this per module).
package hardware
