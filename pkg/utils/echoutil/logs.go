package echoutil

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs every request and its response with latency.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		meth := c.Request().Method
		path := c.Request().URL
		reqId := c.Response().Header().Get(echo.HeaderXRequestID)
		BEGIN := time.Now()
		c.Logger().Infof(
			"< request [%s] @[%s] %s %s", reqId, BEGIN, meth, path,
		)

		var err error

		defer func() {
			END := time.Now()
			c.Logger().Infof(
				"> response [%s] status = %d (for request @[%s] %s %s) in %v / error = %+v",
				reqId, c.Response().Status, BEGIN, meth, path, END.Sub(BEGIN), err,
			)
		}()

		err = next(c)
		return err
	}
}

// ParseLevel converts a name of log level into log.Lvl.
//
// Names are case insensitive. Empty means "info".
// For unknown names, it returns log.WARN and false.
func ParseLevel(loglevel string) (log.Lvl, bool) {
	switch strings.ToLower(loglevel) {
	case "debug":
		return log.DEBUG, true
	case "info", "":
		return log.INFO, true
	case "warn", "warning":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	default:
		return log.WARN, false
	}
}

// SetLevel sets log level of e, falling back to warn for unknown names.
func SetLevel(e *echo.Echo, loglevel string) {
	lvl, ok := ParseLevel(loglevel)
	e.Logger.SetLevel(lvl)
	if !ok {
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
	}
}
