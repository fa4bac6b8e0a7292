package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/gatherly/api/internal/adapters/nats"
	"github.com/gatherly/api/internal/adapters/postgres"
	"github.com/gatherly/api/internal/core/domain"
	"github.com/gatherly/api/internal/pkg/config"
	"github.com/gatherly/api/internal/pkg/logging"
	"github.com/gatherly/api/internal/workflows"
)

func main() {
	cfg, err := config.Load("gatherly-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.CancellationWorkflow)
	w.RegisterActivity(&workflows.CancellationActivities{
		Attendance: postgres.NewAttendanceRepo(db),
		// Notifier is nil in this deployment; pushes are logged.
	})

	// Bridge NATS cancellations into workflow executions
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeActivityCancelled(ctx, func(ctx context.Context, a *domain.Activity) error {
		opts := client.StartWorkflowOptions{
			ID:        "cancellation-" + a.ID,
			TaskQueue: cfg.Temporal.TaskQueue,
		}
		_, err := c.ExecuteWorkflow(ctx, opts, workflows.CancellationWorkflow, workflows.CancellationInput{
			ActivityID: a.ID,
			Title:      a.Title,
		})
		if err != nil {
			slog.Error("start cancellation workflow failed", "activity_id", a.ID, "error", err)
			return err
		}
		slog.Info("cancellation workflow started", "activity_id", a.ID)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("notifier worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
