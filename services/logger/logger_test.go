package logsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/trezcool/deptportal/core"
)

type person struct{}

func (person) LogPerson() (id, username, email string) {
	return "1", "student123", "student@cybersec.edu"
}

func TestNew(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Debug = true

	logger, err := New(conf, "api")
	require.NoError(t, err)
	assert.IsType(t, &ZapLogger{}, logger)

	conf.RollbarToken = "token"
	logger, err = New(conf, "api")
	require.NoError(t, err)
	assert.IsType(t, &RollbarLogger{}, logger)

	conf.RollbarToken = ""
	conf.Log.Level = "loud"
	_, err = New(conf, "api")
	assert.Error(t, err)
}

func TestZapLogger_fields(t *testing.T) {
	obs, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLoggerFrom(zap.New(obs))

	logger.Warn("session user not found", errors.New("boom"), map[string]interface{}{"key": "users"}, person{}, 42)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "session user not found", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "users", fields["key"])
	assert.Equal(t, "1", fields["user_id"])
	assert.Equal(t, "student123", fields["username"])
	assert.Equal(t, "student@cybersec.edu", fields["email"])
	assert.EqualValues(t, 42, fields["arg3"])
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("discarded", map[string]interface{}{"a": 1})
	assert.NoError(t, logger.Sync())
}
