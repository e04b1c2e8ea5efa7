// Package logging provides structured logging for the boot login tools.
//
// This package wraps a package-level zap logger with convenience functions.
// Logging is silent unless a level is given, because stdout belongs to the
// console UI; output goes to stderr or to a log file.
//
// # Configuration
//
//	if err := logging.Initialize("debug", "/var/log/ccboot.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The CCBOOT_LOG_LEVEL and CCBOOT_LOG_FILE environment variables are used
// when the arguments are empty.
//
// # Domain Logging
//
//	logging.LogMenuOutcome("confirmed", 1, "Linux")
//	logging.LogSettingWrite("root-path", "iscsi:10.0.0.1::::iqn:001")
//
// The username and password settings are logged by length only.
package logging
