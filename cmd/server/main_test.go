package main

import (
	"net"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/projecttracker/internal/config"
	"github.com/gurkanbulca/projecttracker/internal/database"
)

func freePort(t *testing.T) string {
	t.Helper()
	lis, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := lis.Addr().(*net.TCPAddr).Port
	require.NoError(t, lis.Close())
	return strconv.Itoa(port)
}

func TestRun_ReturnsListenerFailure(t *testing.T) {
	// Occupy the HTTP port so ListenAndServe fails straight away.
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	t.Cleanup(func() { busy.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{
			HTTPPort:        strconv.Itoa(busy.Addr().(*net.TCPAddr).Port),
			GRPCPort:        freePort(t),
			Environment:     "test",
			AutoMigrate:     true,
			ShutdownTimeout: time.Second,
		},
		Database: config.DatabaseConfig{
			Driver: database.DriverSQLite,
			DBName: "test",
			Path:   filepath.Join(t.TempDir(), "tracker.db"),
		},
		JWT: config.JWTConfig{Secret: "secret", AccessTokenDuration: time.Hour},
	}

	done := make(chan error, 1)
	go func() { done <- run(cfg) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "http server")
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after the HTTP listener failed")
	}
}
