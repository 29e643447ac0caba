package main

import (
	"bytes"
	"flag"
	"strings"
	"testing"
	"time"

	"werewolf/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestParseConfig(t *testing.T) {
	fs := flag.NewFlagSet("admintoken", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-sub", "bot", "-ttl", "1h"}, func(k string) string {
		if k == "ADMIN_JWT_KEY" {
			return "from-env"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, Config{Key: "from-env", Subject: "bot", TTL: time.Hour}, cfg)
}

func TestRun(t *testing.T) {
	const key = "a signing key long enough for hs256"
	buf := &bytes.Buffer{}

	require.NoError(t, Run(Config{Key: key, Subject: "bot", TTL: time.Hour}, buf, time.Now()))

	subject, err := crypto.NewJWTManager(key, time.Hour).Verify(strings.TrimSpace(buf.String()), crypto.ScopeRooms)
	require.NoError(t, err)
	assert.Equal(t, "bot", subject)
}

func TestRun_Rejects(t *testing.T) {
	fs := flag.NewFlagSet("admintoken", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil, noEnv)
	require.NoError(t, err)

	assert.Error(t, Run(cfg, &bytes.Buffer{}, time.Now()), "missing key")
	assert.Error(t, Run(Config{Key: "k", TTL: 0}, &bytes.Buffer{}, time.Now()), "zero ttl")
}
