// Package backup exports the full bill store as a compressed snapshot
// and restores such snapshots through the normal save path, so derived
// fields are recomputed rather than trusted from the file.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang/snappy"
	"github.com/oklog/ulid/v2"
	"github.com/vamsi4727/bhanus-studio-billing/internal/bill/domain"
	"github.com/vamsi4727/bhanus-studio-billing/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrCorruptSnapshot = errors.New("corrupt_snapshot")

// snapshot is the on-disk payload, snappy-compressed JSON.
type snapshot struct {
	ID         string        `json:"id"`
	ExportedAt time.Time     `json:"exportedAt"`
	Bills      []domain.Bill `json:"bills"`
}

// RestoreResult reports how a restore went per bill.
type RestoreResult struct {
	Restored int      `json:"restored"`
	Skipped  []string `json:"skipped,omitempty"`
}

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Bills domain.Service
}

type Service struct {
	log   *zap.Logger
	clock clock.Clock
	bills domain.Service
}

func New(p Params) *Service {
	return &Service{
		log:   p.Log.Named("backup.service"),
		clock: p.Clock,
		bills: p.Bills,
	}
}

// Export snapshots every bill, newest first, and returns the snapshot ID
// and compressed payload.
func (s *Service) Export(ctx context.Context) (string, []byte, error) {
	bills, err := s.bills.ListSorted(ctx)
	if err != nil {
		return "", nil, err
	}

	snap := snapshot{
		ID:         ulid.Make().String(),
		ExportedAt: s.clock.Now().UTC(),
		Bills:      bills,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("snapshot exported",
		zap.String("snapshot_id", snap.ID),
		zap.Int("bills", len(bills)),
	)
	return snap.ID, snappy.Encode(nil, raw), nil
}

// Filename names the download for a snapshot ID.
func (s *Service) Filename(snapshotID string) string {
	return fmt.Sprintf("bhanus-bills-%s.json.sz", snapshotID)
}

// Restore replays a snapshot through the save path. Each bill is
// re-validated and its amounts recomputed; bills that no longer pass
// validation are skipped and reported, not fatal.
func (s *Service) Restore(ctx context.Context, data []byte) (RestoreResult, error) {
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return RestoreResult{}, ErrCorruptSnapshot
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return RestoreResult{}, ErrCorruptSnapshot
	}

	result := RestoreResult{}
	for _, bill := range snap.Bills {
		req := domain.SaveBillRequest{
			InvoiceNumber: bill.InvoiceNumber,
			Date:          bill.Date,
			CustomerName:  bill.CustomerName,
			CustomerPhone: bill.CustomerPhone,
		}
		for _, item := range bill.Items {
			req.Items = append(req.Items, domain.LineItemInput{
				Description: item.Description,
				Qty:         item.Qty,
				Rate:        item.Rate,
			})
		}

		if _, err := s.bills.Save(ctx, req); err != nil {
			if domain.IsValidation(err) {
				s.log.Warn("skipping bill from snapshot",
					zap.String("invoice_number", bill.InvoiceNumber),
					zap.Error(err),
				)
				result.Skipped = append(result.Skipped, bill.InvoiceNumber)
				continue
			}
			return result, err
		}
		result.Restored++
	}

	s.log.Info("snapshot restored",
		zap.String("snapshot_id", snap.ID),
		zap.Int("restored", result.Restored),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}
