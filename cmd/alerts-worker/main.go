package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"epaypro/internal/amqp"
	"epaypro/internal/cli"
	"epaypro/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the alerts worker")
		os.Exit(1)
	}

	logger.Info("Starting alerts-worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	deliveries, err := client.Consume()
	if err != nil {
		logger.Error("Failed to start consuming", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	alertWorker := worker.NewAlertWorker(worker.LogNotifier{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case d, ok := <-deliveries:
				if !ok {
					return nil
				}
				if err := alertWorker.HandleMessage(gctx, d.Body); err != nil {
					logger.Error("Message handling failed", "error", err)
					// Drop the message: malformed payloads never succeed on retry.
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped", "processed", alertWorker.Processed(), "dropped", alertWorker.Dropped())
}
