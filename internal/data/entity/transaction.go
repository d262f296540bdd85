package entity

import (
	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodNetBanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
)

// Transaction is one payment attempt outcome. Rows are immutable once
// written; together they form the audit trail independent of the
// booking's own status field.
type Transaction struct {
	BaseSimple
	BookingID            uuid.UUID         `db:"booking_id"`
	Amount               float64           `db:"amount"`
	PaymentMethod        PaymentMethod     `db:"payment_method"`
	GatewayTransactionID string            `db:"gateway_transaction_id"`
	Status               TransactionStatus `db:"status"`
}
