package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{name: "regular address", email: "jane@acme.io", expected: "j***@acme.io"},
		{name: "surrounding spaces", email: "  bob@x.com ", expected: "b***@x.com"},
		{name: "empty", email: "", expected: ""},
		{name: "no at sign", email: "nobody", expected: "***"},
		{name: "leading at sign", email: "@acme.io", expected: "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskEmail(tt.email))
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"stage": "score"})

	log.Info("scores calculated", map[string]interface{}{
		"overall": 70,
		"cause":   errors.New("boom"),
	})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "score", fields["stage"])
		assert.EqualValues(t, 70, fields["overall"])
		assert.Equal(t, "boom", fields["cause"])
	}
}
