package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name    string
		envMode string
		nodeEnv string
		cfgMode string
		want    ProcessMode
	}{
		{"nothing set defaults to development", "", "", "", ModeDevelopment},
		{"NODE_ENV production", "", "production", "", ModeProduction},
		{"NODE_ENV other value is development", "", "staging", "", ModeDevelopment},
		{"config beats NODE_ENV", "", "production", "development", ModeDevelopment},
		{"env beats config", "prod", "", "development", ModeProduction},
		{"invalid env falls through to config", "loud", "", "production", ModeProduction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvMode, tt.envMode)
			t.Setenv(EnvNodeEnv, tt.nodeEnv)
			assert.Equal(t, tt.want, ResolveMode(&Config{Mode: tt.cfgMode}))
		})
	}
}

func TestResolveMode_NilConfig(t *testing.T) {
	t.Setenv(EnvMode, "")
	t.Setenv(EnvNodeEnv, "production")
	assert.Equal(t, ModeProduction, ResolveMode(nil))
}

func TestProcessMode_IsProduction(t *testing.T) {
	assert.True(t, ModeProduction.IsProduction())
	assert.False(t, ModeDevelopment.IsProduction())
	assert.Equal(t, ModeDevelopment, NormalizeMode("whatever"))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("prod")
	require.NoError(t, err)
	assert.Equal(t, ModeProduction, m)

	_, err = ParseMode("staging")
	require.Error(t, err)
}
