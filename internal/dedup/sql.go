package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"datalayer/internal/models"
)

// SQLStore keeps markers in the dedup_markers table through gorm. Works with
// both the postgres and sqlite drivers.
type SQLStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, key string) (bool, bool, error) {
	var m models.Marker
	err := s.db.WithContext(ctx).First(&m, "marker_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("%w: select marker: %v", ErrUnavailable, err)
	}
	if !m.Live(s.now()) {
		return false, false, nil
	}
	return m.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value bool, ttl time.Duration) error {
	m := s.marker(key, value, ttl)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "marker_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("%w: upsert marker: %v", ErrUnavailable, err)
	}
	return nil
}

// SetIfAbsent runs in a transaction: expired or false markers are removed,
// then the insert either wins or hits the primary key and does nothing.
func (s *SQLStore) SetIfAbsent(ctx context.Context, key string, value bool, ttl time.Duration) (bool, error) {
	claimed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.now()
		if err := tx.Where("marker_key = ? AND (value = ? OR (expires_at IS NOT NULL AND expires_at <= ?))", key, false, now).
			Delete(&models.Marker{}).Error; err != nil {
			return err
		}

		m := s.marker(key, value, ttl)
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
		if res.Error != nil {
			return res.Error
		}
		claimed = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: claim marker: %v", ErrUnavailable, err)
	}
	return claimed, nil
}

// Purge deletes expired markers and reports how many were removed.
func (s *SQLStore) Purge(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&models.Marker{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge markers: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *SQLStore) marker(key string, value bool, ttl time.Duration) models.Marker {
	m := models.Marker{Key: key, Value: value}
	if ttl > 0 {
		exp := s.now().Add(ttl)
		m.ExpiresAt = &exp
	}
	return m
}
