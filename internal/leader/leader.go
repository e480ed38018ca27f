// Package leader provides Kubernetes Lease-based leader election so that only
// one replica runs the snapshot scheduler and the Discord bot.
package leader

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/leaderelection"
	"k8s.io/client-go/tools/leaderelection/resourcelock"

	"github.com/jensholdgaard/eventdesk/internal/config"
)

// Identity names this replica in the Lease: the configured identity, then
// POD_NAME, then the hostname.
func Identity(cfg config.LeaderElectionConfig) string {
	if cfg.Identity != "" {
		return cfg.Identity
	}
	if name := os.Getenv("POD_NAME"); name != "" {
		return name
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "eventdesk-unknown"
}

// ClientFactory builds the clientset used for the Lease. Tests swap it.
var ClientFactory = func() (kubernetes.Interface, error) {
	restCfg, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("leader election needs to run in-cluster: %w", err)
	}
	client, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("creating kubernetes client: %w", err)
	}
	return client, nil
}

// Run blocks in the election loop until ctx is done. onStartedLeading gets a
// context that is canceled when leadership is lost and should block until
// then. onStoppedLeading runs after leadership ends for any reason.
func Run(ctx context.Context, cfg config.LeaderElectionConfig, logger *slog.Logger, onStartedLeading func(ctx context.Context), onStoppedLeading func()) error {
	id := Identity(cfg)
	logger.InfoContext(ctx, "starting leader election",
		slog.String("identity", id),
		slog.String("lease", cfg.LeaseName),
		slog.String("namespace", cfg.LeaseNamespace),
	)

	client, err := ClientFactory()
	if err != nil {
		return fmt.Errorf("leader election client: %w", err)
	}

	lock := &resourcelock.LeaseLock{
		LeaseMeta: metav1.ObjectMeta{
			Name:      cfg.LeaseName,
			Namespace: cfg.LeaseNamespace,
		},
		Client: client.CoordinationV1(),
		LockConfig: resourcelock.ResourceLockConfig{
			Identity: id,
		},
	}

	elector, err := leaderelection.NewLeaderElector(leaderelection.LeaderElectionConfig{
		Lock:            lock,
		LeaseDuration:   cfg.LeaseDuration,
		RenewDeadline:   cfg.RenewDeadline,
		RetryPeriod:     cfg.RetryPeriod,
		ReleaseOnCancel: true,
		Name:            cfg.LeaseName,
		Callbacks: leaderelection.LeaderCallbacks{
			OnStartedLeading: func(ctx context.Context) {
				logger.InfoContext(ctx, "acquired leadership", slog.String("identity", id))
				onStartedLeading(ctx)
			},
			OnStoppedLeading: func() {
				logger.Info("lost leadership", slog.String("identity", id))
				onStoppedLeading()
			},
			OnNewLeader: func(newID string) {
				if newID == id {
					return
				}
				logger.Info("new leader elected", slog.String("leader", newID))
			},
		},
	})
	if err != nil {
		return fmt.Errorf("configuring leader election: %w", err)
	}

	elector.Run(ctx)
	return nil
}

// Gate runs work only while this replica leads. With election disabled work
// runs directly until ctx is done. Gate returns when ctx is done.
func Gate(ctx context.Context, cfg config.LeaderElectionConfig, logger *slog.Logger, work func(ctx context.Context)) error {
	if !cfg.Enabled {
		work(ctx)
		return nil
	}
	// A lost lease ends this replica's turn; keep campaigning until shutdown.
	for ctx.Err() == nil {
		if err := Run(ctx, cfg, logger, work, func() {}); err != nil {
			return err
		}
	}
	return nil
}
