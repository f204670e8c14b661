package worker

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"finsight/internal/amqp"
	"finsight/internal/core"
)

// csvHeader is the first row of a fresh export file.
var csvHeader = []string{"action", "id", "type", "amount", "category", "description", "date", "recorded_at"}

// TransactionGetter is what the exporter needs from the persistence side.
type TransactionGetter interface {
	Get(ctx context.Context, id int64) (core.Transaction, error)
}

// ExportWorker appends transaction lifecycle events to a CSV journal. It is
// the durable audit trail fed by the AMQP event stream: every created or
// deleted transaction becomes one journal row.
type ExportWorker struct {
	storage TransactionGetter
	path    string

	mu sync.Mutex
}

func NewExportWorker(storage TransactionGetter, path string) *ExportWorker {
	return &ExportWorker{
		storage: storage,
		path:    path,
	}
}

// HandleEvent processes a single transaction event from AMQP and appends it
// to the journal.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEventMessage) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"action", msg.Action,
		"id", msg.ID)

	switch msg.Action {
	case amqp.ActionCreated:
		t, err := w.storage.Get(ctx, msg.ID)
		if err != nil {
			return fmt.Errorf("get transaction %d: %w", msg.ID, err)
		}
		return w.appendRow([]string{
			msg.Action,
			strconv.FormatInt(t.ID, 10),
			t.Type,
			decimal.NewFromFloat(t.Amount).StringFixed(2),
			t.Category,
			t.Description,
			t.Date,
			msg.Timestamp.UTC().Format(time.RFC3339),
		})
	case amqp.ActionDeleted:
		// The record is already gone; journal the tombstone only.
		return w.appendRow([]string{
			msg.Action,
			strconv.FormatInt(msg.ID, 10),
			"", "", "", "", "",
			msg.Timestamp.UTC().Format(time.RFC3339),
		})
	default:
		return fmt.Errorf("unknown event action %q", msg.Action)
	}
}

// appendRow writes one row to the journal, creating the file (with header)
// on first use.
func (w *ExportWorker) appendRow(row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat export file: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("write export header: %w", err)
		}
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write export row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export file: %w", err)
	}
	return nil
}
