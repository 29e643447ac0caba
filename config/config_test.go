package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000,https://werewolf.example")
	t.Setenv("ADMIN_JWT_KEY", "secret")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Equal(t, []string{"http://localhost:3000", "https://werewolf.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, 10*time.Second, cfg.RoleActionDuration)
	assert.Equal(t, 5*time.Minute, cfg.DeliberationDuration)
	assert.Equal(t, 30*time.Second, cfg.VoteDuration)
	assert.Equal(t, 5*time.Second, cfg.PersistTimeout)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing origins",
			env:  map[string]string{"ADMIN_JWT_KEY": "secret", "STORAGE_DRIVER": "memory"},
		},
		{
			name: "missing jwt key",
			env:  map[string]string{"ALLOWED_ORIGINS": "http://a", "STORAGE_DRIVER": "memory"},
		},
		{
			name: "postgres without url",
			env:  map[string]string{"ALLOWED_ORIGINS": "http://a", "ADMIN_JWT_KEY": "k", "STORAGE_DRIVER": "postgres"},
		},
		{
			name: "unknown driver",
			env:  map[string]string{"ALLOWED_ORIGINS": "http://a", "ADMIN_JWT_KEY": "k", "STORAGE_DRIVER": "redis"},
		},
		{
			name: "bad duration",
			env:  map[string]string{"ALLOWED_ORIGINS": "http://a", "ADMIN_JWT_KEY": "k", "STORAGE_DRIVER": "memory", "VOTE_DURATION": "soon"},
		},
		{
			name: "zero vote duration",
			env:  map[string]string{"ALLOWED_ORIGINS": "http://a", "ADMIN_JWT_KEY": "k", "STORAGE_DRIVER": "memory", "VOTE_DURATION": "0s"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for _, key := range []string{"ALLOWED_ORIGINS", "ADMIN_JWT_KEY", "STORAGE_DRIVER", "POSTGRES_URL", "VOTE_DURATION"} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
