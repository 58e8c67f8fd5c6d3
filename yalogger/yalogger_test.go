package yalogger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

func TestLevelUnmarshal_Works(t *testing.T) {
	t.Parallel()

	cases := map[string]yalogger.Level{
		"panic":   yalogger.PanicLevel,
		"FATAL":   yalogger.FatalLevel,
		"error":   yalogger.ErrorLevel,
		"warning": yalogger.WarnLevel,
		" info ":  yalogger.InfoLevel,
		"Debug":   yalogger.DebugLevel,
		"trace":   yalogger.TraceLevel,
	}

	for text, want := range cases {
		var got yalogger.Level

		require.NoError(t, got.UnmarshalText([]byte(text)), text)
		assert.Equal(t, want, got, text)
	}
}

func TestLevelUnmarshal_Invalid(t *testing.T) {
	t.Parallel()

	var level yalogger.Level

	assert.ErrorIs(t, level.Unmarshal("loud"), yalogger.ErrInvalidLogLevel)
}

func TestLevelString(t *testing.T) {
	t.Parallel()

	level := yalogger.WarnLevel

	assert.Equal(t, "Warn", level.String())
}

func TestWithFields_DoesNotMutateParent(t *testing.T) {
	t.Parallel()

	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)

	parent := yalogger.FromLogrus(base)
	id := uuid.New()

	child := parent.WithSocketID(id).WithField("retries", 2)
	child.Warn("reconnecting")

	assert.Nil(t, parent.GetField(yalogger.KeySocketID))
	assert.Equal(t, id.String(), child.GetField(yalogger.KeySocketID))
	assert.Equal(t, 2, child.GetFields()["retries"])

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "reconnecting", entry.Message)
	assert.Equal(t, id.String(), entry.Data[yalogger.KeySocketID])
}

func TestNewBaseLogger_RespectsLevel(t *testing.T) {
	t.Parallel()

	log := yalogger.NewBaseLogger(&yalogger.Config{Level: yalogger.ErrorLevel}).NewLogger()

	assert.NotNil(t, log)
	assert.NotPanics(t, func() { log.Debug("dropped") })
}
