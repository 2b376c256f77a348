package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type dbProvider interface {
	DB() *gorm.DB
}

// SQLPersister upserts snapshots into the cart_snapshots table.
type SQLPersister struct {
	db  dbProvider
	ttl time.Duration
	now func() time.Time
}

func NewSQLPersister(db dbProvider, ttl time.Duration) (*SQLPersister, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &SQLPersister{db: db, ttl: ttl, now: time.Now}, nil
}

func (p *SQLPersister) Load(ctx context.Context, namespace string) ([]byte, error) {
	var row models.CartSnapshot
	err := p.db.DB().WithContext(ctx).
		Where("namespace = ?", namespace).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	if p.ttl > 0 && !row.ExpiresAt.After(p.now()) {
		return nil, ErrSnapshotNotFound
	}
	return []byte(row.Payload), nil
}

func (p *SQLPersister) Save(ctx context.Context, namespace string, payload []byte) error {
	now := p.now().UTC()
	expires := now.Add(p.ttl)
	if p.ttl <= 0 {
		expires = now.AddDate(100, 0, 0)
	}
	row := models.CartSnapshot{
		Namespace: namespace,
		Payload:   string(payload),
		Version:   SnapshotVersion,
		ExpiresAt: expires,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := p.db.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "version", "expires_at", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

// PurgeExpired deletes snapshots whose expiry is at or before cutoff and
// returns the number of rows removed.
func (p *SQLPersister) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := p.db.DB().WithContext(ctx).
		Where("expires_at <= ?", cutoff.UTC()).
		Delete(&models.CartSnapshot{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge cart snapshots: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Name reports the dialect, "postgres" or "sqlite".
func (p *SQLPersister) Name() string {
	return p.db.DB().Dialector.Name()
}
