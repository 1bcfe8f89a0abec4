package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pivotpath/pivot-api/internal/models"
)

type stubRecordRepo struct {
	mu      sync.Mutex
	created []*models.MatchRecord
	err     error
	saved   chan struct{}
}

func newStubRecordRepo() *stubRecordRepo {
	return &stubRecordRepo{saved: make(chan struct{}, 64)}
}

func (s *stubRecordRepo) Create(record *models.MatchRecord) error {
	s.mu.Lock()
	err := s.err
	if err == nil {
		s.created = append(s.created, record)
	}
	s.mu.Unlock()

	s.saved <- struct{}{}
	return err
}

func (s *stubRecordRepo) FindByID(id uuid.UUID) (*models.MatchRecord, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRecordRepo) FindRecent(limit int) ([]models.MatchRecord, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRecordRepo) createdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

func waitForSaves(t *testing.T, repo *stubRecordRepo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-repo.saved:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for save %d of %d", i+1, n)
		}
	}
}

func Test_Recorder_PersistsRecords(t *testing.T) {
	repo := newStubRecordRepo()
	rec := NewRecorder(repo, 2, 16)
	rec.Start()

	rec.Record(&models.MatchRecord{Match: 80, QuickMatch: 70, Method: "embedding"})
	rec.Record(&models.MatchRecord{Match: 30, QuickMatch: 33, Method: "quick"})
	rec.Record(&models.MatchRecord{Match: 55, QuickMatch: 50, Method: "embedding"})

	waitForSaves(t, repo, 3)
	rec.Stop()

	assert.Equal(t, 3, repo.createdCount())
}

func Test_Recorder_CreateFailureDoesNotStopWorkers(t *testing.T) {
	repo := newStubRecordRepo()
	repo.err = errors.New("db down")

	rec := NewRecorder(repo, 1, 16)
	rec.Start()

	rec.Record(&models.MatchRecord{Match: 10})
	waitForSaves(t, repo, 1)

	repo.mu.Lock()
	repo.err = nil
	repo.mu.Unlock()

	rec.Record(&models.MatchRecord{Match: 20})
	waitForSaves(t, repo, 1)
	rec.Stop()

	require.Equal(t, 1, repo.createdCount())
	assert.Equal(t, 20, repo.created[0].Match)
}

func Test_Recorder_RecordNeverBlocksWhenFull(t *testing.T) {
	repo := newStubRecordRepo()
	rec := NewRecorder(repo, 1, 1)

	// No workers running: the second record hits a full queue and is dropped
	// instead of blocking the caller.
	done := make(chan struct{})
	go func() {
		rec.Record(&models.MatchRecord{Match: 1})
		rec.Record(&models.MatchRecord{Match: 2})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}
}

func Test_Recorder_RecordAfterStopIsDropped(t *testing.T) {
	repo := newStubRecordRepo()
	rec := NewRecorder(repo, 1, 0)
	rec.Start()
	rec.Stop()

	rec.Record(&models.MatchRecord{Match: 5})
	assert.Equal(t, 0, repo.createdCount())
}
