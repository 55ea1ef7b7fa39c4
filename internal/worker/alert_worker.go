// Package worker processes ledger events consumed from the message broker.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"epaypro/internal/amqp"
)

// Notifier delivers a low-balance alert to the agent. The default
// implementation just logs; a Telegram or SMS notifier can replace it.
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

// LogNotifier writes alerts to the structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, msg string) error {
	slog.WarnContext(ctx, "Supplier balance alert", "alert", msg)
	return nil
}

// AlertWorker dispatches consumed ledger events to their handlers.
type AlertWorker struct {
	notifier Notifier

	processed atomic.Uint64
	dropped   atomic.Uint64
}

func NewAlertWorker(notifier Notifier) *AlertWorker {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &AlertWorker{notifier: notifier}
}

// HandleMessage decodes an envelope and routes it by event name. Unknown
// events are dropped with a warning so new producers never wedge the queue.
func (w *AlertWorker) HandleMessage(ctx context.Context, body []byte) error {
	env, err := amqp.EnvelopeFromJSON(body)
	if err != nil {
		w.dropped.Add(1)
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Event {
	case amqp.EventTransactionRecorded:
		var msg amqp.TransactionRecordedMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			w.dropped.Add(1)
			return fmt.Errorf("decode transaction payload: %w", err)
		}
		return w.handleTransactionRecorded(ctx, &msg)
	case amqp.EventLowBalanceAlert:
		var msg amqp.LowBalanceAlertMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			w.dropped.Add(1)
			return fmt.Errorf("decode alert payload: %w", err)
		}
		return w.handleLowBalanceAlert(ctx, &msg)
	default:
		w.dropped.Add(1)
		slog.WarnContext(ctx, "Unknown event dropped", "event", env.Event)
		return nil
	}
}

func (w *AlertWorker) handleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Transaction recorded",
		"id", msg.ID,
		"provider", msg.Provider,
		"type", msg.Type,
		"amount_cents", msg.AmountCents,
		"client_name", msg.ClientName)
	w.processed.Add(1)
	return nil
}

func (w *AlertWorker) handleLowBalanceAlert(ctx context.Context, msg *amqp.LowBalanceAlertMessage) error {
	text := fmt.Sprintf("رصيد %s منخفض: %.2f جنيه (حد التنبيه %.2f جنيه)",
		msg.Provider, float64(msg.BalanceCents)/100, float64(msg.ThresholdCents)/100)
	if err := w.notifier.Notify(ctx, text); err != nil {
		return fmt.Errorf("notify low balance: %w", err)
	}
	w.processed.Add(1)
	return nil
}

// Processed reports how many events were handled successfully.
func (w *AlertWorker) Processed() uint64 { return w.processed.Load() }

// Dropped reports how many messages were discarded as undecodable or unknown.
func (w *AlertWorker) Dropped() uint64 { return w.dropped.Load() }
