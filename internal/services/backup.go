package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/diewo77/lens-console/internal/domain"
	"github.com/diewo77/lens-console/internal/metrics"
	"github.com/diewo77/lens-console/internal/store"
)

// Backup maps a collection name to its records.
type Backup map[string][]store.Record

// BackupStore reads and replaces whole collections.
type BackupStore interface {
	Collections(ctx context.Context, owner string) ([]string, error)
	GetAll(ctx context.Context, owner, collection string) ([]store.Record, error)
	ReplaceAll(ctx context.Context, owner string, data map[string][]store.Record) error
}

// BackupService exports and restores every collection of an owner.
type BackupService struct {
	store   BackupStore
	metrics metrics.OrderMetrics
	log     *zap.Logger
	clock   Clock
}

func NewBackupService(st BackupStore, m metrics.OrderMetrics, log *zap.Logger, clock Clock) *BackupService {
	if m == nil {
		m = metrics.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BackupService{store: st, metrics: m, log: log, clock: clock}
}

// FileName is the download name of a backup taken today.
func (s *BackupService) FileName() string {
	return "backup_gestionale_" + s.clock.Today().Format("2006-01-02") + ".json"
}

// Export reads every collection, extra ones included.
func (s *BackupService) Export(ctx context.Context, owner string) (Backup, error) {
	names, err := s.store.Collections(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make(Backup, len(names))
	for _, c := range names {
		records, err := s.store.GetAll(ctx, owner, c)
		if err != nil {
			return nil, err
		}
		out[c] = records
	}
	return out, nil
}

// ParseBackup decodes a backup file. The top level must be an object whose
// values are arrays of objects. Files written by the previous console are
// converted to the current collection layout.
func ParseBackup(raw []byte) (Backup, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, domain.FieldError("backup", "invalid_format")
	}
	out := make(Backup, len(top))
	for name, value := range top {
		if !bytes.HasPrefix(bytes.TrimSpace(value), []byte("[")) {
			return nil, domain.FieldError(name, "invalid_format")
		}
		var records []store.Record
		if err := json.Unmarshal(value, &records); err != nil {
			return nil, domain.FieldError(name, "invalid_format")
		}
		for i, r := range records {
			if r == nil {
				return nil, domain.FieldError(fmt.Sprintf("%s[%d]", name, i), "invalid_format")
			}
		}
		out[name] = records
	}
	return convertLegacy(out), nil
}

// Restore replaces every collection present in data. It refuses to run
// without confirmation.
func (s *BackupService) Restore(ctx context.Context, owner string, data Backup, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	if err := s.store.ReplaceAll(ctx, owner, data); err != nil {
		return err
	}
	counts := make([]zap.Field, 0, len(data))
	for c, records := range data {
		counts = append(counts, zap.Int(c, len(records)))
	}
	s.metrics.IncRestore()
	s.log.Info("backup restored", append([]zap.Field{zap.String("owner", owner)}, counts...)...)
	return nil
}
