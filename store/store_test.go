package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "records.json")
	s, err := New(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return s, path
}

func TestCreateGetUpdate(t *testing.T) {
	s, _ := newTestStore(t)

	if s.Exists("U1") {
		t.Fatal("expected U1 to not exist in an empty store")
	}
	if _, err := s.Get("U1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	r, err := s.Create("U1", 1, 42.5)
	if err != nil {
		t.Fatalf("creating record: %v", err)
	}
	if r.Num != 1 || r.Vol != 42.5 {
		t.Errorf("expected num=1 vol=42.5, got num=%v vol=%v", r.Num, r.Vol)
	}

	if _, err := s.Create("U1", 1, 1); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	r, err = s.Get("U1")
	if err != nil {
		t.Fatalf("getting record: %v", err)
	}
	if r.Num != 1 || r.Vol != 42.5 {
		t.Errorf("expected num=1 vol=42.5, got num=%v vol=%v", r.Num, r.Vol)
	}

	r, err = s.Update("U1", 1, 10.0)
	if err != nil {
		t.Fatalf("updating record: %v", err)
	}
	if r.Num != 2 || r.Vol != 52.5 {
		t.Errorf("expected num=2 vol=52.5, got num=%v vol=%v", r.Num, r.Vol)
	}

	if _, err := s.Update("U2", 1, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	s, _ := newTestStore(t)

	r, created, err := s.Upsert("U1", 1, 42.5)
	if err != nil {
		t.Fatalf("upserting: %v", err)
	}
	if !created {
		t.Error("expected first upsert to create the record")
	}
	if r.Num != 1 || r.Vol != 42.5 {
		t.Errorf("expected num=1 vol=42.5, got num=%v vol=%v", r.Num, r.Vol)
	}

	r, created, err = s.Upsert("U1", 1, 10.0)
	if err != nil {
		t.Fatalf("upserting: %v", err)
	}
	if created {
		t.Error("expected second upsert to update the record")
	}
	if r.Num != 2 || r.Vol != 52.5 {
		t.Errorf("expected num=2 vol=52.5, got num=%v vol=%v", r.Num, r.Vol)
	}
}

func TestPersistence(t *testing.T) {
	s, path := newTestStore(t)

	if _, _, err := s.Upsert("U1", 1, 42.5); err != nil {
		t.Fatalf("upserting: %v", err)
	}
	if err := s.RecordMembership("U1", "G1"); err != nil {
		t.Fatalf("recording membership: %v", err)
	}

	// a fresh store on the same file sees the same data
	s2, err := New(path, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}

	r, err := s2.Get("U1")
	if err != nil {
		t.Fatalf("getting record: %v", err)
	}
	if r.Num != 1 || r.Vol != 42.5 {
		t.Errorf("expected num=1 vol=42.5, got num=%v vol=%v", r.Num, r.Vol)
	}

	rs := s2.Ranking("G1", 10)
	if len(rs) != 1 || rs[0].ID != "U1" {
		t.Errorf("expected ranking [U1], got %v", rs)
	}
}

func TestRanking(t *testing.T) {
	s, _ := newTestStore(t)

	records := []struct {
		id    string
		num   int64
		vol   float64
		group string
	}{
		{"U1", 5, 100, "G1"},
		{"U2", 10, 50, "G1"},
		{"U3", 5, 200, "G1"},
		{"U4", 99, 999, "G2"},
		{"U5", 5, 100, "G1"},
	}
	for _, r := range records {
		if _, _, err := s.Upsert(r.id, r.num, r.vol); err != nil {
			t.Fatalf("upserting %v: %v", r.id, err)
		}
		if err := s.RecordMembership(r.id, r.group); err != nil {
			t.Fatalf("recording membership for %v: %v", r.id, err)
		}
	}

	t.Run("order", func(t *testing.T) {
		got := s.Ranking("G1", 10)
		want := []string{"U2", "U3", "U1", "U5"}

		if len(got) != len(want) {
			t.Fatalf("expected %v records, got %v", len(want), len(got))
		}
		for i := range want {
			if got[i].ID != want[i] {
				t.Errorf("place %v: expected %v, got %v", i+1, want[i], got[i].ID)
			}
		}
	})

	t.Run("limit", func(t *testing.T) {
		got := s.Ranking("G1", 2)
		if len(got) != 2 {
			t.Fatalf("expected 2 records, got %v", len(got))
		}
		if got[0].ID != "U2" {
			t.Errorf("expected U2 first, got %v", got[0].ID)
		}
	})

	t.Run("group filter", func(t *testing.T) {
		got := s.Ranking("G2", 10)
		if len(got) != 1 || got[0].ID != "U4" {
			t.Errorf("expected [U4], got %v", got)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		if got := s.Ranking("nope", 10); len(got) != 0 {
			t.Errorf("expected no records, got %v", got)
		}
	})
}

func TestMembershipIdempotent(t *testing.T) {
	s, _ := newTestStore(t)

	if _, _, err := s.Upsert("U1", 1, 1); err != nil {
		t.Fatalf("upserting: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.RecordMembership("U1", "G1"); err != nil {
			t.Fatalf("recording membership: %v", err)
		}
	}

	if got := s.Ranking("G1", 10); len(got) != 1 {
		t.Errorf("expected 1 record, got %v", len(got))
	}
}

func TestMembershipRollbackOnPersistFailure(t *testing.T) {
	s, path := newTestStore(t)

	// occupy the temp file's path so persisting fails
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatalf("blocking temp file: %v", err)
	}

	if err := s.RecordMembership("U1", "G1"); err == nil {
		t.Fatal("expected persisting to fail")
	}
	if _, groups := s.Counts(); groups != 0 {
		t.Errorf("expected the new group to be rolled back, got %v groups", groups)
	}

	if err := os.Remove(path + ".tmp"); err != nil {
		t.Fatalf("unblocking temp file: %v", err)
	}
	if err := s.RecordMembership("U1", "G1"); err != nil {
		t.Fatalf("recording membership: %v", err)
	}

	// a failure adding to an existing group only rolls back the member
	if err := os.Mkdir(path+".tmp", 0o755); err != nil {
		t.Fatalf("blocking temp file: %v", err)
	}
	if err := s.RecordMembership("U2", "G1"); err == nil {
		t.Fatal("expected persisting to fail")
	}
	if _, groups := s.Counts(); groups != 1 {
		t.Errorf("expected the group to survive, got %v groups", groups)
	}
	if len(s.doc.Groups["G1"]) != 1 || !s.doc.Groups["G1"]["U1"] {
		t.Errorf("expected only U1 in G1, got %v", s.doc.Groups["G1"])
	}
}

func TestCounts(t *testing.T) {
	s, _ := newTestStore(t)

	users, groups := s.Counts()
	if users != 0 || groups != 0 {
		t.Fatalf("expected empty store, got %v users in %v groups", users, groups)
	}

	_, _, _ = s.Upsert("U1", 1, 1)
	_, _, _ = s.Upsert("U2", 1, 1)
	_ = s.RecordMembership("U1", "G1")

	users, groups = s.Counts()
	if users != 2 || groups != 1 {
		t.Errorf("expected 2 users in 1 group, got %v in %v", users, groups)
	}
}
