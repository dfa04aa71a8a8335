// Command sweeper runs the recovery sweeps (C5) on a fixed interval,
// independent of the HTTP API process, the way an operator would run it
// as a separate deployable: a sidecar process hitting the same store.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ledger-core/internal/config"
	"ledger-core/internal/domain/recovery"
	"ledger-core/internal/infrastructure/messaging"
	"ledger-core/internal/infrastructure/messaging/kafka"
	"ledger-core/internal/pkg/logging"
	"ledger-core/internal/store"
	"ledger-core/internal/store/memstore"
	"ledger-core/internal/store/mongostore"
)

func connectStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Mongo.URI == "memory" {
		return memstore.New(), nil
	}
	return mongostore.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
}

func warnf(format string, args ...any) {
	logging.Warn(fmt.Sprintf(format, args...))
}

// connectPublisher mirrors components.Container.initEventPublisher: Kafka
// when enabled and reachable, a no-op publisher otherwise, so a recovered
// or canceled transaction always has somewhere safe to publish to.
func connectPublisher(cfg *config.Config) messaging.EventPublisher {
	if !cfg.Kafka.Enabled {
		return messaging.NewNoOpEventPublisher()
	}
	publisher, err := messaging.NewKafkaEventPublisher(kafka.NewConfig(cfg.Kafka))
	if err != nil {
		logging.Warn("sweeper: failed to initialize Kafka, using no-op event publisher", map[string]interface{}{
			"error": err.Error(),
		})
		return messaging.NewNoOpEventPublisher()
	}
	return publisher
}

func main() {
	cfg := config.Load()
	logging.Init(cfg)

	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := connectStore(connectCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("sweeper: connect store: %v", err)
	}

	publisher := connectPublisher(cfg)
	sweeper := recovery.New(db, cfg.Recovery.AgeThreshold, publisher, warnf)

	logging.Info("sweeper started", map[string]interface{}{
		"age_threshold": cfg.Recovery.AgeThreshold.String(),
		"interval":      cfg.Recovery.Interval.String(),
	})

	ticker := time.NewTicker(cfg.Recovery.Interval)
	defer ticker.Stop()

	for range ticker.C {
		runSweep(sweeper)
	}
}

func runSweep(sweeper *recovery.Sweeper) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if report, err := sweeper.RecoverPendingTransactions(ctx); err != nil {
		logging.Error("recover pending sweep failed", err, nil)
	} else if report.Recovered > 0 || report.Failed > 0 {
		logging.Info("recover pending sweep", map[string]interface{}{
			"scanned": report.Scanned, "recovered": report.Recovered, "failed": report.Failed,
		})
	}

	if report, err := sweeper.RecoverAppliedTransactions(ctx); err != nil {
		logging.Error("recover applied sweep failed", err, nil)
	} else if report.Recovered > 0 || report.Failed > 0 {
		logging.Info("recover applied sweep", map[string]interface{}{
			"scanned": report.Scanned, "recovered": report.Recovered, "failed": report.Failed,
		})
	}

	if report, err := sweeper.CancelPendingTransactions(ctx); err != nil {
		logging.Error("cancel pending sweep failed", err, nil)
	} else if report.Recovered > 0 || report.Failed > 0 {
		logging.Info("cancel pending sweep", map[string]interface{}{
			"scanned": report.Scanned, "recovered": report.Recovered, "failed": report.Failed,
		})
	}
}
