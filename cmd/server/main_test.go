package main

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestRunReportsListenFailure(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	dataDir := t.TempDir()
	t.Setenv("STORE_DATA_DIR", dataDir)
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", strconv.Itoa(busy.Addr().(*net.TCPAddr).Port))
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("LOG_LEVEL", "error")

	if code := run(); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "users.json")); err != nil {
		t.Fatalf("expected data dir to be prepared before serving: %v", err)
	}
}
