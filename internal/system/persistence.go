package system

import (
	"context"
	"time"

	coresys "github.com/tickworld/server/internal/core/system"
	"github.com/tickworld/server/internal/world"
	"go.uber.org/zap"
)

// ArchiveSink stores archived blobs outside the process.
type ArchiveSink interface {
	SaveBlobs(ctx context.Context, blobs []world.Blob) error
}

// ArchivePersistenceSystem writes the blobs archived this tick to the sink.
// Failed batches go back to the outbox and are retried next tick.
// Phase 9 (Persist).
type ArchivePersistenceSystem struct {
	world   *world.State
	sink    ArchiveSink
	log     *zap.Logger
	timeout time.Duration
}

func NewArchivePersistenceSystem(ws *world.State, sink ArchiveSink, log *zap.Logger, timeout time.Duration) *ArchivePersistenceSystem {
	ws.EnableArchiveOutbox()
	return &ArchivePersistenceSystem{world: ws, sink: sink, log: log, timeout: timeout}
}

func (s *ArchivePersistenceSystem) Name() string          { return "archive_persistence" }
func (s *ArchivePersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *ArchivePersistenceSystem) Update(_ coresys.Tick) {
	s.Flush()
}

// Flush writes everything pending now. Also called on shutdown.
func (s *ArchivePersistenceSystem) Flush() {
	blobs := s.world.DrainOutbox()
	if len(blobs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.sink.SaveBlobs(ctx, blobs); err != nil {
		s.log.Error("archive flush failed, will retry", zap.Int("blobs", len(blobs)), zap.Error(err))
		s.world.RequeueOutbox(blobs)
		return
	}
	s.log.Info("archived entities persisted", zap.Int("blobs", len(blobs)))
}
