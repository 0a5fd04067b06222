// Package log is a small leveled logging layer over [log/slog].
//
// A [Logger] is built once from functional options and never changes;
// [Logger.Wrap] and [Logger.With] derive new loggers.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Debug("tree loaded", slog.Int("nodes", 42))
//
// Every level has a context-free method and a Context variant. The
// context-free forms use [DefaultContextProvider].
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-node evaluation
// detail. Records below the configured level are discarded.
//
// # Formats
//
// [FormatJSON] and [FormatText] select the [slog] handlers of the same
// name. With [WithPretty] (the default) records are styled with lipgloss
// instead; styling degrades to plain text when the output is not a
// terminal.
//
// # Package Logger
//
// The package-level functions write through a default logger on standard
// error, reconfigured with [Config].
package log
