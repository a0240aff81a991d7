package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// OrderEventRow mirrors the order_events BigQuery schema.
type OrderEventRow struct {
	EventID     string             `bigquery:"event_id"`
	EventType   string             `bigquery:"event_type"`
	OccurredAt  time.Time          `bigquery:"occurred_at"`
	OrderID     *string            `bigquery:"order_id"`
	UserID      *string            `bigquery:"user_id"`
	ItemCount   *int64             `bigquery:"item_count"`
	TotalAmount *string            `bigquery:"total_amount"`
	PlacedAt    *string            `bigquery:"placed_at"`
	Payload     cbigquery.NullJSON `bigquery:"payload"`
}
