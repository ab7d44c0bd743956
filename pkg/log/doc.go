/*
Package log provides structured logging for oretrace using zerolog.

A single global Logger is configured once by Init and shared by every
package. Components derive child loggers that carry identifying fields.

	┌──────────────────── LOGGING SYSTEM ──────────────────────┐
	│                                                            │
	│  Global Logger (log.Init)                                  │
	│    - Level: debug/info/warn/error                          │
	│    - Format: JSON or console                               │
	│    - Output: stdout or custom writer                       │
	│                     │                                      │
	│  Child Loggers                                             │
	│    - WithComponent("linker")                               │
	│    - WithSheet("Solids")                                   │
	│    - WithNotifier("telegram")                              │
	└────────────────────────────────────────────────────────┘

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})

	logger := log.WithComponent("ingest")
	logger.Info().
		Int("samples", added).
		Int("skipped", skipped).
		Msg("Lab samples stored")

Notifier failures are logged at error level through WithNotifier so that
they can be filtered by the notifier field.
*/
package log
