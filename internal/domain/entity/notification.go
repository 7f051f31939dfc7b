package entity

import "time"

// Categorías de notificación; la deduplicación es por (producto, categoría, no leída).
const (
	NotificationStockAlert  = "stock_alert"
	NotificationExamination = "examination"
)

// Notification aviso generado por el disparador de alertas y exámenes.
type Notification struct {
	ID          string    `db:"id" json:"id"`
	ProductID   string    `db:"product_id" json:"product_id"`
	Category    string    `db:"category" json:"category"`
	Message     string    `db:"message" json:"message"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	ProductName string    `db:"product_name" json:"product_name"`
}
