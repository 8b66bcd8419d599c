// Package store implements the file-backed counter store.
package store

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	// ErrNotFound is returned when no record exists for the given ID.
	ErrNotFound = errors.Sentinel("store: record not found")
	// ErrExists is returned by Create when a record already exists.
	ErrExists = errors.Sentinel("store: record already exists")
)

// PrivateGroup is the group ID used when no guild context is available.
const PrivateGroup = "private"

// UserRecord is a single user's accumulated numbers.
// Num and Vol only ever grow.
type UserRecord struct {
	ID  string  `json:"id"`
	Num int64   `json:"num"`
	Vol float64 `json:"vol"`
}

type document struct {
	Users  map[string]UserRecord      `json:"users"`
	Groups map[string]map[string]bool `json:"groups"`
}

// Store is a counter store persisted to a single JSON file.
// All operations are safe for concurrent use; mutations are written to disk
// before they return.
type Store struct {
	mu    sync.Mutex
	path  string
	doc   document
	sugar *zap.SugaredLogger
}

// New loads the store at path, creating an empty one if the file doesn't
// exist yet.
func New(path string, sugar *zap.SugaredLogger) (*Store, error) {
	s := &Store{
		path:  path,
		sugar: sugar.Named("store"),
		doc: document{
			Users:  map[string]UserRecord{},
			Groups: map[string]map[string]bool{},
		},
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.sugar.Infof("No existing data at %v, starting fresh", path)
			return s, nil
		}
		return nil, errors.Wrap(err, "reading store file")
	}

	if err := json.Unmarshal(b, &s.doc); err != nil {
		return nil, errors.Wrap(err, "unmarshaling store file")
	}
	if s.doc.Users == nil {
		s.doc.Users = map[string]UserRecord{}
	}
	if s.doc.Groups == nil {
		s.doc.Groups = map[string]map[string]bool{}
	}

	s.sugar.Infof("Loaded %v records in %v groups", len(s.doc.Users), len(s.doc.Groups))
	return s, nil
}

// persist writes the whole document to disk. Callers must hold s.mu.
// The write goes through a temporary file and a rename so a crash mid-write
// can't leave a half-written document behind.
func (s *Store) persist() error {
	b, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling store")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errors.Wrap(err, "writing store file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing store file")
}

// Exists returns true if a record exists for the given user ID.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.doc.Users[id]
	return ok
}

// Get returns the record for the given user ID, or ErrNotFound.
func (s *Store) Get(id string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.doc.Users[id]
	if !ok {
		return UserRecord{}, ErrNotFound
	}
	return r, nil
}

// Create adds a new record. It returns ErrExists if the ID is already known.
func (s *Store) Create(id string, num int64, vol float64) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doc.Users[id]; ok {
		return UserRecord{}, ErrExists
	}

	r := UserRecord{ID: id, Num: num, Vol: vol}
	s.doc.Users[id] = r
	if err := s.persist(); err != nil {
		delete(s.doc.Users, id)
		return UserRecord{}, err
	}
	return r, nil
}

// Update adds the given deltas to an existing record.
func (s *Store) Update(id string, numDelta int64, volDelta float64) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.doc.Users[id]
	if !ok {
		return UserRecord{}, ErrNotFound
	}

	r := prev
	r.Num += numDelta
	r.Vol = roundVol(r.Vol + volDelta)
	s.doc.Users[id] = r
	if err := s.persist(); err != nil {
		s.doc.Users[id] = prev
		return UserRecord{}, err
	}
	return r, nil
}

// Upsert atomically creates a record with the given deltas as initial
// values, or adds them to the existing record. It returns true if the record
// was newly created.
func (s *Store) Upsert(id string, numDelta int64, volDelta float64) (UserRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.doc.Users[id]

	r := prev
	r.ID = id
	r.Num += numDelta
	r.Vol = roundVol(r.Vol + volDelta)
	s.doc.Users[id] = r
	if err := s.persist(); err != nil {
		if existed {
			s.doc.Users[id] = prev
		} else {
			delete(s.doc.Users, id)
		}
		return UserRecord{}, false, err
	}
	return r, !existed, nil
}

// RecordMembership marks the user as seen in the given group. It is
// idempotent; a user is never removed from a group.
func (s *Store) RecordMembership(id, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.Groups[groupID][id] {
		return nil
	}

	created := s.doc.Groups[groupID] == nil
	if created {
		s.doc.Groups[groupID] = map[string]bool{}
	}
	s.doc.Groups[groupID][id] = true
	if err := s.persist(); err != nil {
		if created {
			delete(s.doc.Groups, groupID)
		} else {
			delete(s.doc.Groups[groupID], id)
		}
		return err
	}
	return nil
}

// Ranking returns up to limit records for users seen in the given group,
// sorted by count descending. Ties break on volume descending, then ID
// ascending, so the order is stable.
func (s *Store) Ranking(groupID string, limit int) []UserRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rs []UserRecord
	for id := range s.doc.Groups[groupID] {
		if r, ok := s.doc.Users[id]; ok {
			rs = append(rs, r)
		}
	}

	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Num != rs[j].Num {
			return rs[i].Num > rs[j].Num
		}
		if rs[i].Vol != rs[j].Vol {
			return rs[i].Vol > rs[j].Vol
		}
		return rs[i].ID < rs[j].ID
	})

	if limit > 0 && len(rs) > limit {
		rs = rs[:limit]
	}
	return rs
}

// Counts returns the number of known users and groups.
func (s *Store) Counts() (users, groups int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.doc.Users), len(s.doc.Groups)
}
