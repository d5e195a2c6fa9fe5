package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  logrus.Level
	}{
		{"debug level", "debug", logrus.DebugLevel},
		{"warn level", "warn", logrus.WarnLevel},
		{"default info", "", logrus.InfoLevel},
		{"garbage falls back", "loud", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.level, "json").GetLevel())
		})
	}
}

func TestNewFormatter(t *testing.T) {
	_, isText := New("info", "text").Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)

	_, isJSON := New("info", "").Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}
