package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"loreline/internal/timeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEvent() timeline.Event {
	return timeline.Event{
		ID:              "1",
		Title:           "Creation of Arda",
		Era:             timeline.EraYearsOfTheTrees,
		Year:            nil,
		Characters:      []string{"Eru Ilúvatar", "The Valar"},
		Location:        "The Void",
		Summary:         "The world is sung into being through the Music of the Ainur.",
		RelatedEventIDs: []string{"2"},
		Source:          timeline.SingleSource("The Silmarillion"),
	}
}

func TestOpenAndClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()
}

func TestCloseNilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil db should not error: %v", err)
	}
}

func TestUpsertAndGetByID(t *testing.T) {
	s := openTestStore(t)

	event := testEvent()
	if err := s.Upsert(&event); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	retrieved, err := s.GetByID("1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetByID returned nil")
	}

	if !reflect.DeepEqual(*retrieved, event) {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", *retrieved, event)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	s := openTestStore(t)

	event, err := s.GetByID("999")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if event != nil {
		t.Error("expected nil for nonexistent event")
	}
}

func TestUpsertIdempotent(t *testing.T) {
	s := openTestStore(t)

	event := testEvent()
	if err := s.Upsert(&event); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if err := s.Upsert(&event); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row after double upsert, got %d", n)
	}
}

func TestUpsertReplaces(t *testing.T) {
	s := openTestStore(t)

	event := testEvent()
	if err := s.Upsert(&event); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	event.Title = "The Ainulindalë"
	event.Characters = []string{"Eru Ilúvatar"}
	if err := s.Upsert(&event); err != nil {
		t.Fatalf("replacing Upsert failed: %v", err)
	}

	retrieved, err := s.GetByID("1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Title != "The Ainulindalë" {
		t.Errorf("expected replaced title, got %q", retrieved.Title)
	}
	if len(retrieved.Characters) != 1 {
		t.Errorf("expected replaced characters, got %v", retrieved.Characters)
	}
}

func TestRoundTripYearAndEmptyArrays(t *testing.T) {
	s := openTestStore(t)

	year := 3019
	event := timeline.Event{
		ID:              "pelennor",
		Title:           "Battle of the Pelennor Fields",
		Era:             timeline.EraThirdAge,
		Year:            &year,
		Characters:      []string{},
		Location:        "Minas Tirith",
		Summary:         "The great battle before the gates of the White City.",
		RelatedEventIDs: []string{},
		Source:          timeline.SingleSource("The Return of the King"),
	}

	if err := s.Upsert(&event); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	retrieved, err := s.GetByID("pelennor")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if retrieved.Year == nil || *retrieved.Year != 3019 {
		t.Errorf("year mismatch: %v", retrieved.Year)
	}
	// Empty sequences must come back as empty, not nil
	if retrieved.Characters == nil || len(retrieved.Characters) != 0 {
		t.Errorf("expected empty characters, got %v", retrieved.Characters)
	}
	if retrieved.RelatedEventIDs == nil || len(retrieved.RelatedEventIDs) != 0 {
		t.Errorf("expected empty related ids, got %v", retrieved.RelatedEventIDs)
	}
}

func TestRoundTripMultiSource(t *testing.T) {
	s := openTestStore(t)

	event := testEvent()
	event.ID = "akallabeth"
	event.Source = timeline.MultiSource("The Silmarillion", "Unfinished Tales")

	if err := s.Upsert(&event); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	retrieved, err := s.GetByID("akallabeth")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if !retrieved.Source.Multiple {
		t.Error("expected multi-citation source")
	}
	if !reflect.DeepEqual(retrieved.Source.Values, []string{"The Silmarillion", "Unfinished Tales"}) {
		t.Errorf("source values mismatch: %v", retrieved.Source.Values)
	}
}

func TestGetAll(t *testing.T) {
	s := openTestStore(t)

	first := testEvent()
	second := testEvent()
	second.ID = "2"
	second.Title = "Awakening of the Elves"

	if err := s.Upsert(&first); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if err := s.Upsert(&second); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	events, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestGetAllEmpty(t *testing.T) {
	s := openTestStore(t)

	events, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected empty store, got %d events", len(events))
	}
}

func TestImportBatchLastWriteWins(t *testing.T) {
	s := openTestStore(t)

	first := testEvent()
	first.Title = "Old Title"
	second := testEvent()
	second.Title = "New Title"

	n, err := s.ImportBatch([]timeline.Event{first, second})
	if err != nil {
		t.Fatalf("ImportBatch failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 records processed, got %d", n)
	}

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row for duplicate ids, got %d", count)
	}

	retrieved, err := s.GetByID("1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Title != "New Title" {
		t.Errorf("expected last occurrence to win, got %q", retrieved.Title)
	}
}

func TestCorruptRecordError(t *testing.T) {
	s := openTestStore(t)

	event := testEvent()
	if err := s.Upsert(&event); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// Corrupt the characters column behind the codec's back.
	if _, err := s.db.Exec(`UPDATE events SET characters = 'not json' WHERE id = '1'`); err != nil {
		t.Fatalf("corrupting row failed: %v", err)
	}

	_, err := s.GetByID("1")
	var corrupt *CorruptRecordError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptRecordError, got %v", err)
	}
	if corrupt.ID != "1" || corrupt.Column != "characters" {
		t.Errorf("error names wrong row/column: %+v", corrupt)
	}

	// The listing skips the corrupt row but still surfaces the error.
	second := testEvent()
	second.ID = "2"
	if err := s.Upsert(&second); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	events, err := s.GetAll()
	if !errors.As(err, &corrupt) {
		t.Errorf("GetAll should surface corruption, got %v", err)
	}
	if len(events) != 1 || events[0].ID != "2" {
		t.Errorf("GetAll should still return healthy rows, got %v", events)
	}
}
