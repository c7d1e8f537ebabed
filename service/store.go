package service

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/agropack/artworkflow/backend/config"
	"github.com/agropack/artworkflow/backend/model"
	"github.com/agropack/artworkflow/backend/workflow"
)

// ErrRecordNotFound is returned for unknown record ids.
var ErrRecordNotFound = errors.New("record not found")

// RecordStore is an in-memory store for artwork records with optimistic
// concurrency: Get hands out deep copies and Save rejects a copy whose version
// lost a race. In production, this should be replaced with a database.
type RecordStore struct {
	mu         sync.RWMutex
	records    map[string]*model.ArtworkRecord
	maxRecords int // 0 = unlimited
	now        func() time.Time
}

// NewRecordStore creates a store with the configured retention cap.
func NewRecordStore(cfg *config.StoreConfig) *RecordStore {
	maxRecords := 0
	if cfg != nil && cfg.MaxRecords > 0 {
		maxRecords = cfg.MaxRecords
	}
	slog.Info("record store initialized", "max_records", maxRecords)
	return &RecordStore{
		records:    make(map[string]*model.ArtworkRecord),
		maxRecords: maxRecords,
		now:        time.Now,
	}
}

// Create adds a new record and assigns its initial version.
func (s *RecordStore) Create(rec *model.ArtworkRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = rec.Clone()
	s.cleanupIfNeeded()
}

// Get returns a deep copy of the record, safe for the caller to mutate before
// handing it back to Save.
func (s *RecordStore) Get(id string) (*model.ArtworkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return rec.Clone(), nil
}

// Save writes the record back if its version still matches the stored one,
// bumping the version. A stale copy gets a ConflictError so the caller can
// refetch and re-decide instead of silently overwriting.
func (s *RecordStore) Save(rec *model.ArtworkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[rec.ID]
	if !ok {
		return ErrRecordNotFound
	}
	if stored.Version != rec.Version {
		return workflow.NewConflict(rec.ID)
	}
	rec.Version++
	rec.UpdatedAt = s.now()
	s.records[rec.ID] = rec.Clone()
	return nil
}

// List returns copies of all records, newest first.
func (s *RecordStore) List() []*model.ArtworkRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.ArtworkRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ListByVendor returns copies of records assigned to the vendor email.
func (s *RecordStore) ListByVendor(email string) []*model.ArtworkRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.ArtworkRecord
	for _, rec := range s.records {
		if rec.AssignedVendor != nil && rec.AssignedVendor.Email == email {
			out = append(out, rec.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of records in the store.
func (s *RecordStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// cleanupIfNeeded removes the oldest completed records past the retention cap.
// Records in flight are never evicted. Must be called with the lock held.
func (s *RecordStore) cleanupIfNeeded() {
	if s.maxRecords <= 0 || len(s.records) <= s.maxRecords {
		return
	}

	var done []*model.ArtworkRecord
	for _, rec := range s.records {
		if rec.Completed() {
			done = append(done, rec)
		}
	}
	sort.Slice(done, func(i, j int) bool {
		return done[i].CreatedAt.Before(done[j].CreatedAt)
	})

	remove := len(s.records) - s.maxRecords
	for i := 0; i < remove && i < len(done); i++ {
		slog.Info("evicting completed record",
			"record_id", done[i].ID,
			"created_at", done[i].CreatedAt,
		)
		delete(s.records, done[i].ID)
	}
}

// VendorFileStore tracks vendor deliverable submissions.
type VendorFileStore struct {
	mu    sync.RWMutex
	files []model.VendorFile
}

// NewVendorFileStore creates an empty vendor file store.
func NewVendorFileStore() *VendorFileStore {
	return &VendorFileStore{}
}

// Add records a submission.
func (s *VendorFileStore) Add(f model.VendorFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, f)
}

// ListBySupplier returns the vendor's submissions, newest first.
func (s *VendorFileStore) ListBySupplier(email string) []model.VendorFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.VendorFile
	for _, f := range s.files {
		if f.SupplierEmail == email {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out
}
