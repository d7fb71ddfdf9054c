package logsvc

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/deptportal/core"
)

type ZapLogger struct {
	zl *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a zap logger from the log configuration: `console` format is human readable, anything else is JSON.
func NewZapLogger(conf core.LogConfig) (*ZapLogger, error) {
	var zapConf zap.Config
	switch conf.Format {
	case "console":
		zapConf = zap.NewDevelopmentConfig()
		zapConf.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapConf = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(conf.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", conf.Level)
	}
	zapConf.Level = zap.NewAtomicLevelAt(level)

	zl, err := zapConf.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, errors.Wrap(err, "building logger")
	}
	return &ZapLogger{zl: zl}, nil
}

// NewNopLogger returns a logger discarding everything.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{zl: zap.NewNop()}
}

func NewZapLoggerFrom(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{zl: zl}
}

// expected fmt: error, map[string]interface{}, core.Person
func (l ZapLogger) fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for i, arg := range args {
		switch a := arg.(type) {
		case error:
			flds = append(flds, zap.Error(a))
		case map[string]interface{}:
			for k, v := range a {
				flds = append(flds, zap.Any(k, v))
			}
		case core.Person:
			id, uname, email := a.LogPerson()
			flds = append(flds, zap.String("user_id", id), zap.String("username", uname), zap.String("email", email))
		default:
			flds = append(flds, zap.Any(fmt.Sprintf("arg%d", i), a))
		}
	}
	return flds
}

func (l ZapLogger) Debug(msg string, args ...interface{}) { l.zl.Debug(msg, l.fields(args)...) }
func (l ZapLogger) Info(msg string, args ...interface{})  { l.zl.Info(msg, l.fields(args)...) }
func (l ZapLogger) Warn(msg string, args ...interface{})  { l.zl.Warn(msg, l.fields(args)...) }
func (l ZapLogger) Error(msg string, args ...interface{}) { l.zl.Error(msg, l.fields(args)...) }
func (l ZapLogger) Fatal(msg string, args ...interface{}) { l.zl.Fatal(msg, l.fields(args)...) }

// Sync flushes buffered entries.
func (l ZapLogger) Sync() error { return l.zl.Sync() }
