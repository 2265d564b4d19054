package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "development default", env: "development", want: zapcore.DebugLevel},
		{name: "production default", env: "production", want: zapcore.InfoLevel},
		{name: "production is case insensitive", env: "Production", want: zapcore.InfoLevel},
		{name: "level override", env: "development", level: "warn", want: zapcore.WarnLevel},
		{name: "bad level", env: "production", level: "loud", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			log, err := New(test.env, test.level)
			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(test.want))
			assert.False(t, log.Core().Enabled(test.want-1))
		})
	}
}

func TestMust_FallsBackOnBadLevel(t *testing.T) {
	log := Must("production", "loud")
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
