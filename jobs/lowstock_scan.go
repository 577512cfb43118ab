package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hostflow/hostflow/internal/finance"
)

// LowStockScanJob walks every consumable across all properties and emails
// each host one digest of the items that need restocking.
type LowStockScanJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
	Client *Client
	clock  func() time.Time
}

// NewLowStockScanJob initialises the scan handler.
func NewLowStockScanJob(pool *pgxpool.Pool, logger *slog.Logger, client *Client) *LowStockScanJob {
	return &LowStockScanJob{
		Pool:   pool,
		Logger: logger,
		Client: client,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

type lowStockRow struct {
	hostEmail    string
	propertyName string
	item         finance.Item
}

// Handle executes the scan and enqueues one email per host.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("low stock scan: handler not configured")
	}
	start := j.now()
	logger := j.logger()
	logger.Info("starting low stock scan")

	rows, err := j.collect(ctx)
	if err != nil {
		logger.Error("scan failed", slog.Any("error", err))
		return err
	}

	byHost := make(map[string][]lowStockRow)
	for _, row := range rows {
		byHost[row.hostEmail] = append(byHost[row.hostEmail], row)
	}

	enqueued := 0
	for email, hostRows := range byHost {
		payload := SendEmailPayload{
			To:      email,
			Subject: "HostFlow: items running low",
			Body:    digestBody(hostRows),
		}
		if j.Client == nil {
			continue
		}
		if _, err := j.Client.EnqueueSendEmail(ctx, payload); err != nil {
			logger.Error("enqueue digest", slog.String("to", email), slog.Any("error", err))
			continue
		}
		enqueued++
	}

	logger.Info("completed low stock scan",
		slog.Int("low_items", len(rows)),
		slog.Int("digests", enqueued),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// collect returns every low-stock consumable with its host and property.
// The threshold mirrors the dashboard: quantity at or below minimum, with
// permanent items excluded.
func (j *LowStockScanJob) collect(ctx context.Context) ([]lowStockRow, error) {
	query := `SELECT h.email, p.name, i.name, i.quantity, i.min_stock, i.cost_per_unit
		FROM inventory_items i
		JOIN properties p ON p.id = i.property_id
		JOIN hosts h ON h.id = p.host_id
		WHERE i.permanent = FALSE AND i.quantity <= i.min_stock
		ORDER BY h.email, p.name, i.name`
	rows, err := j.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lowStockRow
	for rows.Next() {
		var row lowStockRow
		if err := rows.Scan(&row.hostEmail, &row.propertyName, &row.item.Name,
			&row.item.Quantity, &row.item.MinStock, &row.item.CostPerUnit); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func digestBody(rows []lowStockRow) string {
	var b strings.Builder
	b.WriteString("The following items are at or below their minimum stock:\n\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "- %s / %s: %d left (min %d), suggested order %d\n",
			row.propertyName, row.item.Name, row.item.Quantity, row.item.MinStock,
			finance.SuggestedOrder(row.item))
	}
	b.WriteString("\nOpen HostFlow to download the shopping list.\n")
	return b.String()
}

func (j *LowStockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeLowStockScan))
	}
	return slog.Default().With(slog.String("job", TaskTypeLowStockScan))
}

func (j *LowStockScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
