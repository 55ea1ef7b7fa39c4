package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Payment providers the agent transacts through. Display values are the
// Arabic names shown across the product.
const (
	ProviderFawry        Provider = "فوري"
	ProviderAman         Provider = "أمان"
	ProviderOPay         Provider = "أوباي"
	ProviderMomken       Provider = "ممكن"
	ProviderVodafoneCash Provider = "فودافون كاش"
	ProviderOrangeCash   Provider = "أورانج كاش"
	ProviderEtisalatCash Provider = "اتصالات كاش"
	ProviderWeePay       Provider = "وي باي"
)

const (
	TypeDeposit    TransactionType = "شحن رصيد مورد"
	TypePayout     TransactionType = "تحويل لعميل"
	TypeCommission TransactionType = "عمولة"
	TypeCashOut    TransactionType = "سحب كاش"
)

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
	StatusFailed    TransactionStatus = "failed"
)

const (
	MaintenancePending    MaintenanceStatus = "قيد الانتظار"
	MaintenanceInProgress MaintenanceStatus = "جاري الإصلاح"
	MaintenanceFixed      MaintenanceStatus = "تم الإصلاح"
	MaintenanceDelivered  MaintenanceStatus = "تم التسليم"
)

// NoTransactions is the lastTransaction sentinel for a client that has
// never transacted.
const NoTransactions = "لا يوجد"

type (
	Provider          string
	TransactionType   string
	TransactionStatus string
	MaintenanceStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID         string
		Date       time.Time
		Provider   Provider
		Type       TransactionType
		Amount     Money
		Commission Money
		ClientName string
		Status     TransactionStatus
		Note       string
	}

	Client struct {
		ID              string
		Code            string
		Name            string
		Phone           string
		Balance         Money
		LastTransaction string
	}

	Supplier struct {
		ID             string
		Provider       Provider
		CurrentBalance Money
		Threshold      Money
	}

	MaintenanceRecord struct {
		ID           string
		SerialNumber string
		ClientName   string
		Issue        string
		ReceivedDate Date
		Status       MaintenanceStatus
		Cost         Money
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrEmptyClientName   = errors.New("empty client name")
	ErrEmptyPhone        = errors.New("empty phone number")
	ErrEmptySerialNumber = errors.New("empty serial number")
	ErrEmptyIssue        = errors.New("empty issue description")
)

// Providers lists every known provider in display order.
func Providers() []Provider {
	return []Provider{
		ProviderFawry, ProviderAman, ProviderOPay, ProviderMomken,
		ProviderVodafoneCash, ProviderOrangeCash, ProviderEtisalatCash, ProviderWeePay,
	}
}

// TransactionTypes lists every transaction type in display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{TypeDeposit, TypePayout, TypeCommission, TypeCashOut}
}

// MaintenanceStatuses lists the ticket states in workflow order. The order is
// informational only: any state may move to any other.
func MaintenanceStatuses() []MaintenanceStatus {
	return []MaintenanceStatus{MaintenancePending, MaintenanceInProgress, MaintenanceFixed, MaintenanceDelivered}
}

func (p Provider) IsValid() bool {
	switch p {
	case ProviderFawry, ProviderAman, ProviderOPay, ProviderMomken,
		ProviderVodafoneCash, ProviderOrangeCash, ProviderEtisalatCash, ProviderWeePay:
		return true
	}
	return false
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TypeDeposit, TypePayout, TypeCommission, TypeCashOut:
		return true
	}
	return false
}

func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	}
	return false
}

func (s MaintenanceStatus) IsValid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceFixed, MaintenanceDelivered:
		return true
	}
	return false
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// NewDate creates a calendar-day Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a calendar-day Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// String renders the date in the YYYY-MM-DD form used across the UI.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (t Transaction) Validate() error {
	if !t.Provider.IsValid() {
		return ErrInvalidProvider
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	// Commission is informational, never derived from the amount, but it
	// cannot be negative.
	if t.Commission.Cents < 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.ClientName) == "" {
		return ErrEmptyClientName
	}
	return nil
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyClientName
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrEmptyPhone
	}
	return nil
}

func (s Supplier) Validate() error {
	if !s.Provider.IsValid() {
		return ErrInvalidProvider
	}
	if s.Threshold.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m MaintenanceRecord) Validate() error {
	if strings.TrimSpace(m.SerialNumber) == "" {
		return ErrEmptySerialNumber
	}
	if strings.TrimSpace(m.ClientName) == "" {
		return ErrEmptyClientName
	}
	if strings.TrimSpace(m.Issue) == "" {
		return ErrEmptyIssue
	}
	if !m.Status.IsValid() {
		return ErrInvalidStatus
	}
	if m.Cost.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}
