// Package audit records who did what to which bill. Entries are
// append-only; failures to write an entry never fail the operation
// being audited.
package audit

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionBillSaved      = "bill.saved"
	ActionProfileUpdated = "profile.updated"
	ActionBackupExported = "backup.exported"
	ActionBackupRestored = "backup.restored"
)

type Log struct {
	ID         string            `gorm:"primaryKey" json:"id"`
	Action     string            `gorm:"index;not null" json:"action"`
	TargetType string            `gorm:"not null" json:"targetType"`
	TargetID   string            `gorm:"index" json:"targetId"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"index;not null" json:"createdAt"`
}

// TableName sets the database table name.
func (Log) TableName() string { return "audit_logs" }

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
}

func New(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		clock: p.Clock,
		genID: p.GenID,
	}
}

// Record appends one entry. Errors are logged and swallowed so an audit
// write can never fail the operation it describes.
func (s *Service) Record(ctx context.Context, action, targetType, targetID string, metadata map[string]any) {
	entry := Log{
		ID:         s.genID.Generate().String(),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  s.clock.Now().UTC(),
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSONMap(metadata)
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn("audit write failed",
			zap.String("action", action),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
	}
}

// List returns the most recent entries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Log, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []Log
	err := s.db.WithContext(ctx).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
