// Package vt6log sets up the process-wide go-logging logger shared by
// every package in this daemon.
package vt6log

import (
	stdlog "log"
	"log/syslog"
	"os"

	"github.com/op/go-logging"
)

// Log is the shared logger. Every package that logs pulls this rather than
// constructing its own.
var Log = logging.MustGetLogger("")

var syslogFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.6s} ▶ %{message}`,
)
var stderrFormat = logging.MustStringFormatter(
	`%{color}vt6d ▶ %{message}%{color:reset}`,
)

// SetupLogging wires Log to a syslog backend (if trySyslog and syslog is
// reachable) or a colorized stderr backend otherwise, with prefix used as
// the backend's own log tag. The level is defaultLogLevel unless overridden
// by VT6D_LOG_LEVEL.
func SetupLogging(prefix string, defaultLogLevel logging.Level, trySyslog bool) *logging.Logger {
	var backend logging.Backend
	if trySyslog {
		var err error
		backend, err = logging.NewSyslogBackendPriority(prefix, syslog.LOG_NOTICE)
		if err == nil {
			logging.SetFormatter(syslogFormat)
			if syslogBackend, ok := backend.(*logging.SyslogBackend); ok {
				stdlog.SetOutput(syslogBackend.Writer)
			}
		} else {
			backend = nil
		}
	}
	if backend == nil {
		backend = logging.NewLogBackend(os.Stderr, prefix, 0)
		logging.SetFormatter(stderrFormat)
	}

	leveled := logging.AddModuleLevel(backend)
	switch os.Getenv("VT6D_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, "")
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "")
	case "NOTICE":
		leveled.SetLevel(logging.NOTICE, "")
	case "INFO":
		leveled.SetLevel(logging.INFO, "")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "")
	default:
		leveled.SetLevel(defaultLogLevel, "")
	}

	logging.SetBackend(leveled)
	return Log
}
