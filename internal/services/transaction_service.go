package services

import (
	"context"
	"fmt"
	"log/slog"

	"finsight/internal/amqp"
	"finsight/internal/core"
	"finsight/internal/storage"
)

// TransactionService orchestrates transaction operations across SQLite and
// the optional AMQP event pipeline. With a nil AMQP client it degrades to a
// plain store: events are skipped, never failed on.
type TransactionService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewTransactionService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Create saves a transaction and publishes a created event.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	id, err := s.storage.Insert(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	t.ID = id

	// Event publishing must not fail the request; the record is saved.
	if err := s.publishEvent(ctx, amqp.ActionCreated, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish created event", "id", id, "error", err)
	}

	return t, nil
}

// Delete removes a transaction by id, publishing a deleted event when a row
// was actually removed. Returns the number of rows affected.
func (s *TransactionService) Delete(ctx context.Context, id int64) (int64, error) {
	changes, err := s.storage.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}

	if changes > 0 {
		if err := s.publishEvent(ctx, amqp.ActionDeleted, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish deleted event", "id", id, "error", err)
		}
	}

	return changes, nil
}

func (s *TransactionService) publishEvent(ctx context.Context, action string, id int64) error {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event", "action", action, "id", id)
		return nil
	}
	return s.amqpClient.PublishTransactionEvent(ctx, action, id)
}

// Read operations delegate straight to the store.

func (s *TransactionService) List(ctx context.Context, start, end string, limit, offset int) ([]core.Transaction, error) {
	return s.storage.List(ctx, start, end, limit, offset)
}

func (s *TransactionService) Count(ctx context.Context, start, end string) (int64, error) {
	return s.storage.Count(ctx, start, end)
}

func (s *TransactionService) CategoryExpenseSums(ctx context.Context, start, end string) ([]core.CategorySum, error) {
	return s.storage.CategoryExpenseSums(ctx, start, end)
}

func (s *TransactionService) AllCategoryExpenseSums(ctx context.Context) ([]core.CategorySum, error) {
	return s.storage.AllCategoryExpenseSums(ctx)
}

func (s *TransactionService) TypeTotals(ctx context.Context, start, end string) (core.TypeTotals, error) {
	return s.storage.TypeTotals(ctx, start, end)
}

func (s *TransactionService) DailySums(ctx context.Context, typ, start, end string) ([]core.DailySum, error) {
	return s.storage.DailySums(ctx, typ, start, end)
}

func (s *TransactionService) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}
