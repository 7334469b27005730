package models

import (
	"time"
)

// CallerEntry is one occupant of one queue. The (QueueName, PhoneNumber)
// pair is the natural key; ID exists for efficient point deletes.
// Queues have no row of their own: a queue exists exactly while it has
// at least one entry.
type CallerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"size:32;not null;uniqueIndex:idx_queue_phone" json:"phone_number"`
	QueueName   string    `gorm:"size:128;not null;uniqueIndex:idx_queue_phone;index:idx_queue_position" json:"queue_name"`
	Position    int       `gorm:"not null;index:idx_queue_position" json:"position"` // 1-based rank, 1 = next to be served
	CreatedAt   time.Time `json:"created_at"`
}

// QueueCount is one row of the cross-queue summary.
type QueueCount struct {
	QueueName string `json:"queue_name"`
	Count     int    `json:"count"`
}
