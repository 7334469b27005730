package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"callqueue/internal/models"
)

var _ Store = (*Postgres)(nil)

// Postgres keeps the position records in PostgreSQL through GORM. Every
// Atomic call runs in one transaction holding a per-queue advisory lock,
// so the compound join/leave sequences are serialized on the server side
// across every process talking to the same database.
type Postgres struct {
	pgOps
}

// NewPostgres wraps an open GORM connection.
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{pgOps{db: db}}
}

func (p *Postgres) Atomic(ctx context.Context, queueName string, fn func(tx Tx) error) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// hashtext folds the queue name into the advisory lock keyspace.
		// The lock is released automatically at commit or rollback.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", queueName).Error; err != nil {
			return err
		}
		return fn(pgOps{db: tx})
	})
}

// pgOps implements Tx against either the root connection or an open
// transaction.
type pgOps struct {
	db *gorm.DB
}

func (o pgOps) Find(ctx context.Context, queueName, phoneNumber string) (*models.CallerEntry, error) {
	var entry models.CallerEntry
	err := o.db.WithContext(ctx).
		Where("queue_name = ? AND phone_number = ?", queueName, phoneNumber).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (o pgOps) Count(ctx context.Context, queueName string) (int, error) {
	var n int64
	err := o.db.WithContext(ctx).
		Model(&models.CallerEntry{}).
		Where("queue_name = ?", queueName).
		Count(&n).Error
	return int(n), err
}

func (o pgOps) Insert(ctx context.Context, entry *models.CallerEntry) error {
	return o.db.WithContext(ctx).Create(entry).Error
}

func (o pgOps) Delete(ctx context.Context, id uint) error {
	return o.db.WithContext(ctx).Delete(&models.CallerEntry{}, id).Error
}

func (o pgOps) ShiftDown(ctx context.Context, queueName string, abovePosition int) error {
	// One statement for the whole renumbering, not a row-by-row loop.
	return o.db.WithContext(ctx).
		Model(&models.CallerEntry{}).
		Where("queue_name = ? AND position > ?", queueName, abovePosition).
		UpdateColumn("position", gorm.Expr("position - 1")).Error
}

func (o pgOps) Entries(ctx context.Context, queueName string) ([]models.CallerEntry, error) {
	var entries []models.CallerEntry
	err := o.db.WithContext(ctx).
		Where("queue_name = ?", queueName).
		Order("position ASC").
		Find(&entries).Error
	return entries, err
}

func (o pgOps) Summary(ctx context.Context) ([]models.QueueCount, error) {
	// Non-nil so an empty summary serializes as [] rather than null.
	rows := []models.QueueCount{}
	err := o.db.WithContext(ctx).
		Model(&models.CallerEntry{}).
		Select("queue_name, COUNT(*) AS count").
		Group("queue_name").
		Order("queue_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (o pgOps) Stale(ctx context.Context, cutoff time.Time) ([]models.CallerEntry, error) {
	var entries []models.CallerEntry
	err := o.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
