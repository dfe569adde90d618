// Package audit records admin actions off the request path. Writes go
// through a buffered channel into a background worker so a slow or failing
// audit insert never blocks a handler.
package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"fleetboard/internal/interfaces"
	"fleetboard/internal/models"
)

const (
	defaultBuffer = 256
	writeTimeout  = 5 * time.Second
)

type Recorder struct {
	repo    interfaces.AuditLogRepository
	entries chan models.AuditLog
	done    chan struct{}
	once    sync.Once
	dropped int64
	mu      sync.Mutex
}

func NewRecorder(repo interfaces.AuditLogRepository) *Recorder {
	r := &Recorder{
		repo:    repo,
		entries: make(chan models.AuditLog, defaultBuffer),
		done:    make(chan struct{}),
	}
	go r.loop()
	return r
}

// Record queues an audit entry. When the buffer is full the entry is dropped
// and counted rather than blocking the caller.
func (r *Recorder) Record(actor, action, entity, entityID, detail string) {
	if r == nil {
		return
	}
	entry := models.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}

	select {
	case r.entries <- entry:
	default:
		r.mu.Lock()
		r.dropped++
		dropped := r.dropped
		r.mu.Unlock()
		log.Printf("audit recorder buffer full, dropped %d entries so far", dropped)
	}
}

func (r *Recorder) loop() {
	for entry := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := r.repo.Insert(ctx, &entry); err != nil {
			log.Printf("audit write failed (%s %s/%s): %v", entry.Action, entry.Entity, entry.EntityID, err)
		}
		cancel()
	}
	close(r.done)
}

// Close drains pending entries and stops the worker.
func (r *Recorder) Close() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		close(r.entries)
		<-r.done
	})
}
