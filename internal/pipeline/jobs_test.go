package pipeline

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/corepassmd/internal/coreid"
	"github.com/dgallion1/corepassmd/internal/rewrite"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJobID_IsVersion7(t *testing.T) {
	id, err := uuid.Parse(NewJobID())
	if err != nil {
		t.Fatalf("expected a UUID, got error %v", err)
	}
	if id.Version() != 7 {
		t.Errorf("expected version 7, got %d", id.Version())
	}
	if NewJobID() == NewJobID() {
		t.Error("expected distinct ids")
	}
}

func TestNewJob(t *testing.T) {
	opts := coreid.DefaultOptions()
	opts.Negation = coreid.NegateGlyph
	job := NewJob("a.md", []byte("x"), FormatHTML, opts)

	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("unexpected initial state %q/%q", job.Status, job.Phase)
	}
	if string(job.FileData()) != "x" {
		t.Errorf("unexpected file data %q", job.FileData())
	}
	if job.Options().Negation != coreid.NegateGlyph {
		t.Errorf("options not carried")
	}
	if _, _, ok := job.Output(); ok {
		t.Error("output must not be available before completion")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusRewriting, "rewriting"},
		{StatusRendering, "rendering"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJobStatus_Done(t *testing.T) {
	for _, s := range []JobStatus{StatusQueued, StatusParsing, StatusRewriting, StatusRendering} {
		if s.Done() {
			t.Errorf("%q should not be terminal", s)
		}
	}
	for _, s := range []JobStatus{StatusCompleted, StatusFailed} {
		if !s.Done() {
			t.Errorf("%q should be terminal", s)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("parse failed")
	job.AddError("render failed")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "parse failed" {
		t.Errorf("expected first error %q, got %q", "parse failed", snap.Errors[0])
	}
}

func TestJob_Complete(t *testing.T) {
	job := NewJob("doc.md", []byte("in"), FormatMarkdown, coreid.DefaultOptions())
	job.Complete(Result{
		Output: []byte("out\n"),
		Title:  "doc",
		Stats:  rewrite.Stats{LeavesRewritten: 1, Valid: 1},
	})

	data, hash, ok := job.Output()
	if !ok {
		t.Fatal("expected output after completion")
	}
	if string(data) != "out\n" {
		t.Errorf("unexpected output %q", data)
	}
	if hash != ContentHashHex([]byte("out\n")) {
		t.Errorf("unexpected hash %q", hash)
	}
	if job.FileData() != nil {
		t.Error("expected input released after completion")
	}

	snap := job.Snapshot()
	if snap.Status != StatusCompleted || snap.Title != "doc" || snap.Stats.Valid != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
