// Package logging builds the gommon loggers shared by the server, the
// directory service and the queue consumer.
package logging

import (
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"
)

// ParseLevel maps a LOG_LEVEL value onto a gommon level.
func ParseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	}
	return log.INFO, fmt.Errorf("unknown log level %q", s)
}

// New returns a logger with the given prefix and level.  Unknown levels
// fall back to info.
func New(prefix, level string) *log.Logger {
	l := log.New(prefix)
	lvl, err := ParseLevel(level)
	l.SetLevel(lvl)
	if err != nil {
		l.Warnj(log.JSON{"msg": "falling back to info level", "error": err.Error()})
	}
	return l
}
