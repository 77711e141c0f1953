// Package logx configures shotarc's structured logging.
//
// The package wraps zerolog behind a small Logger value that stays "live"
// across reconfiguration: Service.Apply() swaps the root logger atomically,
// and every Logger previously handed out starts writing to the new sinks.
//
// Sinks:
//   - Console (human-friendly output with short timestamps)
//   - File (JSON lines, appended)
package logx
