package cmd

import (
	"strings"

	"github.com/labstack/gommon/log"
)

// EchoLogLevel maps the ECHO_LOG_LEVEL setting to gommon's levels. Unknown values mean warn.
func EchoLogLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "info":
		return log.INFO
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.WARN
	}
}
