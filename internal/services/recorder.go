package services

import (
	"log"
	"sync"

	"pivotpath/pivot-api/internal/models"
	"pivotpath/pivot-api/internal/repositories"
)

// Recorder persists match records off the request path. Enqueueing never
// blocks a handler: when the buffer is full the record is dropped.
type Recorder interface {
	Start()
	Stop()
	Record(record *models.MatchRecord)
}

type recorder struct {
	repo        repositories.MatchRecordRepository
	queue       chan *models.MatchRecord
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewRecorder(repo repositories.MatchRecordRepository, concurrency, queueSize int) Recorder {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	return &recorder{
		repo:        repo,
		queue:       make(chan *models.MatchRecord, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Recorder.
func (r *recorder) Start() {
	log.Printf("🚀 Starting recorder with %d workers\n", r.concurrency)

	for i := 0; i < r.concurrency; i++ {
		r.wg.Add(1)
		go r.processRecords(i + 1)
	}
}

// Stop implements Recorder.
func (r *recorder) Stop() {
	log.Println("🛑 Stopping recorder...")
	close(r.stopChan)
	r.wg.Wait()
	log.Println("✅ Recorder stopped")
}

// Record implements Recorder.
func (r *recorder) Record(record *models.MatchRecord) {
	select {
	case r.queue <- record:
	case <-r.stopChan:
		log.Println("⚠️  Recorder stopped, dropping match record")
	default:
		log.Println("⚠️  Recorder queue full, dropping match record")
	}
}

func (r *recorder) processRecords(workerID int) {
	defer r.wg.Done()

	for {
		select {
		case <-r.stopChan:
			return
		case record := <-r.queue:
			if err := r.repo.Create(record); err != nil {
				log.Printf("⚠️  Recorder #%d failed to save match record: %v\n", workerID, err)
			}
		}
	}
}
