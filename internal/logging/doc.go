// Package logging provides structured logging for procview.
//
// The TUI owns the terminal, so diagnostics go to a JSON log file under the
// data directory instead of stderr. Records from the background refresher,
// the process source and the TUI carry a "component" attribute so that
// `procview logs --component refresher` can isolate one activity.
//
// # Basic Usage
//
//	logger, err := logging.NewLoggerWithRotation(dataDir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	refreshLog := logger.WithComponent("refresher")
//	refreshLog.Debug("refresh skipped", "error", err)
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"refresh skipped","component":"refresher","error":"..."}
//
// # Log Rotation
//
// Rotated files are named procview.log.1, procview.log.2, ... where .1 is the
// most recent backup. With Compress set, backups become procview.log.1.gz.
//
// # Reading Logs
//
// [ReadEntries] parses the log file back and [FilterEntries] narrows it by
// level, component, pid or message substring.
//
// # Testing
//
// Use [NopLogger] to discard all log output.
package logging
