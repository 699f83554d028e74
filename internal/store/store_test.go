package store

import (
	"sync"
	"testing"

	"chartlab/domain/dataset"
	"chartlab/domain/table"
	"chartlab/internal/errors"
)

func testEntry(name string) (*dataset.Dataset, *table.RecordSet) {
	rs := table.NewRecordSet(
		[]table.Field{{Name: "v", Type: table.FieldNumeric}},
		[]table.Record{{"v": 1.0}},
	)
	return dataset.New(name, name+".csv", "upload", rs), rs
}

func TestStore_PutGetList(t *testing.T) {
	s := New()
	metaA, rsA := testEntry("a")
	metaB, rsB := testEntry("b")
	s.Put(metaA, rsA)
	s.Put(metaB, rsB)

	got, err := s.Get(metaA.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Meta.Name != "a" {
		t.Errorf("got %q, want a", got.Meta.Name)
	}

	list := s.List()
	if len(list) != 2 || list[0].Name != "a" || list[1].Name != "b" {
		t.Errorf("list order wrong: %v", list)
	}
}

func TestStore_GetUnknownIsNotFound(t *testing.T) {
	_, err := New().Get("nope")
	if errors.GetCode(err) != errors.CodeNotFound {
		t.Errorf("code = %q, want NOT_FOUND", errors.GetCode(err))
	}
}

func TestStore_Delete(t *testing.T) {
	s := New()
	meta, rs := testEntry("a")
	s.Put(meta, rs)
	s.Delete(meta.ID)
	s.Delete("unknown") // no-op
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
	if len(s.List()) != 0 {
		t.Error("deleted dataset still listed")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			meta, rs := testEntry("ds")
			s.Put(meta, rs)
			s.List()
			s.Get(meta.ID)
		}()
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Errorf("len = %d, want 50", s.Len())
	}
}
