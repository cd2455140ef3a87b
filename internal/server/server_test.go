package server_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/id-contact/test-auth/internal/config"
	"github.com/id-contact/test-auth/internal/server"
)

func TestServer_StartStop(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config) {
		cfg.Server.Listen = "127.0.0.1:0"
	})

	ctx := context.Background()
	require.NoError(t, env.server.Start(ctx))

	// Second start must be rejected while running.
	require.Error(t, env.server.Start(ctx))

	require.NoError(t, env.server.Stop(ctx))

	// Stopping a stopped server is a no-op.
	require.NoError(t, env.server.Stop(ctx))
}

func TestServer_New_BadKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ServerURL = "https://test-auth.example.com"
	cfg.Attributes = map[string]string{"email": "tester@example.com"}
	cfg.SigningKey = config.KeyConfig{Type: "EC", Key: "garbage"}
	cfg.Encryption = config.KeyConfig{Type: "RSA", Key: "garbage"}

	_, err := server.New(&cfg)
	require.Error(t, err)
}
