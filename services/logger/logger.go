// Package logsvc provides the core.Logger implementations.
package logsvc

import (
	"log"
	"os"
	"strings"

	"github.com/trezcool/deptportal/core"
)

// New returns the application logger named `name`: a Rollbar logger when a Rollbar token is configured,
// a zap logger otherwise. Rollbar reporting is disabled in debug mode.
func New(conf *core.Config, name string) (core.Logger, error) {
	if conf.RollbarToken != "" {
		std := log.New(os.Stdout, strings.ToUpper(name)+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
		logger := NewRollbarLogger(std, conf)
		logger.Enable(!conf.Debug)
		return logger, nil
	}

	logger, err := NewZapLogger(conf.Log)
	if err != nil {
		return nil, err
	}
	return NewZapLoggerFrom(logger.zl.Named(name)), nil
}
