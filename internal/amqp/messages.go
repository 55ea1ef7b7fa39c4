package amqp

import (
	"encoding/json"
	"time"

	"epaypro/internal/core"
)

// Event names carried in the message envelope.
const (
	EventTransactionRecorded = "transaction.recorded"
	EventLowBalanceAlert     = "supplier.low_balance"
)

// Envelope wraps every ledger event published to the exchange.
type Envelope struct {
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// TransactionRecordedMessage announces a newly recorded transaction.
type TransactionRecordedMessage struct {
	ID              string `json:"id"`
	Provider        string `json:"provider"`
	Type            string `json:"type"`
	AmountCents     int64  `json:"amount_cents"`
	CommissionCents int64  `json:"commission_cents"`
	ClientName      string `json:"client_name"`
}

// LowBalanceAlertMessage announces that a supplier float fell under its
// alert threshold after a debit.
type LowBalanceAlertMessage struct {
	Provider       string `json:"provider"`
	BalanceCents   int64  `json:"balance_cents"`
	ThresholdCents int64  `json:"threshold_cents"`
}

// NewTransactionRecordedMessage builds the event for a recorded transaction.
func NewTransactionRecordedMessage(tx core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:              tx.ID,
		Provider:        string(tx.Provider),
		Type:            string(tx.Type),
		AmountCents:     tx.Amount.Cents,
		CommissionCents: tx.Commission.Cents,
		ClientName:      tx.ClientName,
	}
}

// NewLowBalanceAlertMessage builds the event for a supplier under threshold.
func NewLowBalanceAlertMessage(s core.Supplier) *LowBalanceAlertMessage {
	return &LowBalanceAlertMessage{
		Provider:       string(s.Provider),
		BalanceCents:   s.CurrentBalance.Cents,
		ThresholdCents: s.Threshold.Cents,
	}
}

// Wrap serializes a payload into an envelope ready for publishing.
func Wrap(event string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Event:     event,
		Timestamp: time.Now(),
		Payload:   raw,
	})
}

// EnvelopeFromJSON decodes an envelope from consumed message bytes.
func EnvelopeFromJSON(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
