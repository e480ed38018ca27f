package leader_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/jensholdgaard/eventdesk/internal/config"
	"github.com/jensholdgaard/eventdesk/internal/leader"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() config.LeaderElectionConfig {
	return config.LeaderElectionConfig{
		Enabled:        true,
		LeaseName:      "eventdesk-test-leader",
		LeaseNamespace: "default",
		LeaseDuration:  2 * time.Second,
		RenewDeadline:  time.Second,
		RetryPeriod:    200 * time.Millisecond,
	}
}

// useClient points leader.ClientFactory at client for the test's duration.
func useClient(t *testing.T, client kubernetes.Interface, err error) {
	t.Helper()
	orig := leader.ClientFactory
	leader.ClientFactory = func() (kubernetes.Interface, error) { return client, err }
	t.Cleanup(func() { leader.ClientFactory = orig })
}

func TestRun_AcquiresLease(t *testing.T) {
	t.Setenv("POD_NAME", "replica-a")
	client := fake.NewClientset()
	useClient(t, client, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var acquired atomic.Bool
	leaderCtx, leaderCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		errCh <- leader.Run(leaderCtx, testConfig(), testLogger,
			func(ctx context.Context) {
				acquired.Store(true)
				<-ctx.Done()
			},
			func() {},
		)
	}()

	for !acquired.Load() {
		select {
		case <-ctx.Done():
			t.Fatal("timed out waiting for leader election")
		case <-time.After(20 * time.Millisecond):
		}
	}

	lease, err := client.CoordinationV1().Leases("default").Get(ctx, "eventdesk-test-leader", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("getting lease: %v", err)
	}
	if lease.Spec.HolderIdentity == nil || *lease.Spec.HolderIdentity != "replica-a" {
		t.Errorf("lease holder = %v, want replica-a", lease.Spec.HolderIdentity)
	}

	leaderCancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func TestRun_ClientError(t *testing.T) {
	useClient(t, nil, errors.New("not in cluster"))

	err := leader.Run(context.Background(), testConfig(), testLogger, func(context.Context) {}, func() {})
	if err == nil {
		t.Fatal("expected error when no client can be built")
	}
}

func TestRun_InvalidTimings(t *testing.T) {
	useClient(t, fake.NewClientset(), nil)
	cfg := testConfig()
	cfg.RenewDeadline = cfg.LeaseDuration

	err := leader.Run(context.Background(), cfg, testLogger, func(context.Context) {}, func() {})
	if err == nil {
		t.Fatal("expected error for renew deadline >= lease duration")
	}
}

func TestGate_Disabled(t *testing.T) {
	useClient(t, nil, errors.New("must not be called"))

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	err := leader.Gate(ctx, config.LeaderElectionConfig{}, testLogger, func(ctx context.Context) {
		ran.Store(true)
		cancel()
		<-ctx.Done()
	})
	if err != nil {
		t.Fatalf("Gate() error = %v", err)
	}
	if !ran.Load() {
		t.Error("work did not run with election disabled")
	}
}

func TestGate_Enabled(t *testing.T) {
	useClient(t, fake.NewClientset(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var ran atomic.Bool
	err := leader.Gate(ctx, testConfig(), testLogger, func(workCtx context.Context) {
		ran.Store(true)
		cancel()
		<-workCtx.Done()
	})
	if err != nil {
		t.Fatalf("Gate() error = %v", err)
	}
	if !ran.Load() {
		t.Error("work did not run after acquiring the lease")
	}
}
