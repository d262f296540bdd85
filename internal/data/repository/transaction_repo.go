package repository

import (
	"context"
	"fmt"

	"ticketbooth/internal/data/entity"
	"ticketbooth/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionRepository is append-only; a transaction row is never updated
// after insert.
type TransactionRepository interface {
	Create(ctx context.Context, q database.Querier, txn *entity.Transaction) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transaction, error)
}

type transactionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTransactionRepository(db database.PgxIface, log *zap.Logger) TransactionRepository {
	return &transactionRepository{
		db:  db,
		log: log.With(zap.String("repository", "transaction")),
	}
}

func (r *transactionRepository) Create(ctx context.Context, q database.Querier, txn *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, booking_id, amount, payment_method, gateway_transaction_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.Exec(ctx, query,
		txn.ID,
		txn.BookingID,
		txn.Amount,
		txn.PaymentMethod,
		txn.GatewayTransactionID,
		txn.Status,
		txn.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create transaction",
			zap.Error(err),
			zap.String("booking_id", txn.BookingID.String()),
			zap.String("gateway_txn_id", txn.GatewayTransactionID),
		)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *transactionRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transaction, error) {
	query := `
		SELECT id, booking_id, amount, payment_method, gateway_transaction_id, status, created_at
		FROM transactions
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find transactions",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}
	defer rows.Close()

	var txns []*entity.Transaction
	for rows.Next() {
		var txn entity.Transaction
		err := rows.Scan(
			&txn.ID,
			&txn.BookingID,
			&txn.Amount,
			&txn.PaymentMethod,
			&txn.GatewayTransactionID,
			&txn.Status,
			&txn.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan transaction row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	return txns, nil
}
