// Package logger provides structured logging for the LoginShield SDK
// using zerolog.
//
// Loggers are scoped by component and carry structured fields. The SDK
// clients log request and response diagnostics at debug level and
// failures at warn level, so the default info level keeps them quiet.
//
// # Usage
//
//	log := logger.Get("loginshield")
//	log.Debug("startLogin request", logger.Fields("realm_id", realmID))
//
// Output, level and format come from Config. A program that owns its
// logging registers its logger under "loginshield" with Register and the
// clients pick it up.
package logger
