package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jensholdgaard/eventdesk/internal/config"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestServe_LeaderWorkErrorReleasesPort(t *testing.T) {
	dir := t.TempDir()
	awsConfig := filepath.Join(dir, "aws-config")
	if err := os.WriteFile(awsConfig, []byte("[default]\nregion = us-east-1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// A profile that does not exist makes the S3 destination fail to configure.
	t.Setenv("AWS_CONFIG_FILE", awsConfig)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", awsConfig)
	t.Setenv("AWS_PROFILE", "eventdesk-missing-profile")

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "events.db")
	cfg.Server.Port = freePort(t)
	cfg.Snapshot.Interval = time.Minute
	cfg.Snapshot.S3Bucket = "snapshots"

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := serve(ctx, cfg); err == nil {
		t.Fatal("serve() should fail when the snapshot destination cannot be configured")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.Port))
	if err != nil {
		t.Fatalf("port %d still bound after failed serve: %v", cfg.Server.Port, err)
	}
	ln.Close()
}
