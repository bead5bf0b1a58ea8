// Package logging provides process log files with leveled entries.
//
// A [Logger] owns one log file for the lifetime of a program run. The file
// lives in the OS temporary directory and is named after the running
// program and the moment the Logger was created:
//
//	{tempDir}/{program}_{yyyyMMddHHmmss}.log
//
// Each run gets its own file; an existing file with the same name is
// truncated. Other processes may open the file to read it while it is being
// written.
//
// # Line Format
//
// Every entry is one line of four comma-separated fields:
//
//	2026-10-19 14:03:07,[WARNING],CheckDisk,low space
//
// The level tag is one of [LevelError], [LevelWarning] or [LevelInfo].
// Commas inside the message are not escaped, so readers must split a line
// into at most four fields; [ParseEntry] does this.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger()
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("disk ok", "Probe")
//	logger.Warning("low space", "CheckDisk")
//	logger.Err(err, "Run")
//
// The module argument names the component writing the entry. [Logger.Err]
// writes two lines for an error: its message, then its type, wrapped causes
// and the caller's stack. Multi-line error messages are folded onto one
// line with " | " so both lines parse back.
//
// # Thread Safety
//
// A [Logger] is safe for concurrent use. Writes are serialized and each one
// is flushed to the file before the call returns, so lines appear in the
// order the calls were made. Nothing coordinates writes from other
// processes sharing the file.
//
// # Errors
//
// Nothing is retried or swallowed. Failing to read the program name
// ([ErrMetadataUnavailable]) or to open the file fails construction; write
// failures and writes after [Logger.Close] ([ErrClosed]) are returned to
// the caller, which may ignore them.
//
// # Reading Logs
//
// [ReadEntries], [FilterEntries] and [ExportEntries] read a log back,
// select entries and convert them to JSON, text, CSV or YAML.
// [FindLogfiles] lists the files earlier runs of a program left behind.
package logging
