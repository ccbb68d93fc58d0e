// Package settings persists small key-value configuration records, such
// as the studio profile printed on rendered bills.
package settings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/vamsi4727/bhanus-studio-billing/internal/cache"
	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileKey holds the studio identity shown on exported bills.
const ProfileKey = "studio_profile"

var ErrInvalidKey = errors.New("invalid_key")

// Record is one settings entry. Value is schemaless on purpose: the
// profile form owns its own field set. No gorm column default on Value:
// a default would drop it from OnConflict update lists and make upserts
// keep the old JSON.
type Record struct {
	Key       string            `gorm:"primaryKey;column:key;type:text" json:"key"`
	Value     datatypes.JSONMap `gorm:"not null" json:"value"`
	UpdatedAt time.Time         `gorm:"not null" json:"updatedAt"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "settings" }

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cache *cache.TTL[string, datatypes.JSONMap]
}

func New(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		clock: p.Clock,
		cache: cache.New[string, datatypes.JSONMap](5 * time.Minute),
	}
}

// Get returns the stored value for key, or an empty map when the key
// has never been written.
func (s *Service) Get(ctx context.Context, key string) (datatypes.JSONMap, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrInvalidKey
	}

	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	var record Record
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return datatypes.JSONMap{}, nil
	}
	if err != nil {
		return nil, err
	}
	if record.Value == nil {
		record.Value = datatypes.JSONMap{}
	}
	s.cache.Put(key, record.Value)
	return record.Value, nil
}

// Put upserts the value for key.
func (s *Service) Put(ctx context.Context, key string, value map[string]any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidKey
	}
	if value == nil {
		value = map[string]any{}
	}

	record := Record{
		Key:       key,
		Value:     datatypes.JSONMap(value),
		UpdatedAt: s.clock.Now().UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return err
	}

	s.cache.Evict(key)
	s.log.Info("setting updated", zap.String("key", key))
	return nil
}
