package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/substratal/mediagrab/internal/models"
)

// Store is the in-memory job record table. All methods are safe for
// concurrent use from workers and request handlers; reads hand out copies so
// callers never observe a record mid-mutation.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*models.Job
	order []string
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string]*models.Job),
	}
}

// Create assigns a fresh id and timestamps and files the record. Ids are
// never reused.
func (s *Store) Create(job *models.Job) string {
	now := time.Now().UTC()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Status == "" {
		job.Status = models.JobStatusQueued
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	s.byID[cp.ID] = &cp
	s.order = append(s.order, cp.ID)
	return cp.ID
}

func (s *Store) Get(id string) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *job
	return &cp, nil
}

// Update applies mutate to the stored record as one atomic section and
// returns the resulting snapshot.
func (s *Store) Update(id string, mutate func(*models.Job)) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	mutate(job)
	job.UpdatedAt = time.Now().UTC()
	cp := *job
	return &cp, nil
}

// ClaimNextQueued promotes the oldest queued record to processing and
// returns its snapshot. The scan and the transition are one atomic section,
// so two workers can never claim the same job.
func (s *Store) ClaimNextQueued() (*models.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		job, ok := s.byID[id]
		if !ok || job.Status != models.JobStatusQueued {
			continue
		}
		job.Status = models.JobStatusProcessing
		job.UpdatedAt = time.Now().UTC()
		cp := *job
		return &cp, true
	}
	return nil, false
}

// List returns snapshots of all records in insertion order.
func (s *Store) List() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Job, 0, len(s.order))
	for _, id := range s.order {
		if job, ok := s.byID[id]; ok {
			out = append(out, *job)
		}
	}
	return out
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
