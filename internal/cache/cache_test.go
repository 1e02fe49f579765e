package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupTestStore creates a temporary store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir(), DefaultOptions("test-v1"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	return s
}

// TestFingerprint tests fingerprint construction.
func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("carries algorithm prefix", func(t *testing.T) {
		t.Parallel()

		got := Fingerprint([]byte("# Hola\n"))
		if !strings.HasPrefix(got, "blake3:") {
			t.Errorf("expected blake3 prefix, got %q", got)
		}
		// 32-byte digest hex encoded.
		if len(got) != len("blake3:")+64 {
			t.Errorf("unexpected fingerprint length: %d", len(got))
		}
	})

	t.Run("is deterministic and content sensitive", func(t *testing.T) {
		t.Parallel()

		a := Fingerprint([]byte("same"))
		b := Fingerprint([]byte("same"))
		c := Fingerprint([]byte("different"))
		if a != b {
			t.Error("same content produced different fingerprints")
		}
		if a == c {
			t.Error("different content produced the same fingerprint")
		}
	})
}

// TestOpen tests store opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "newdir", "subdir")
		s, err := Open(dir, DefaultOptions("test-v1"))
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		defer s.Close()

		if _, err := os.Stat(filepath.Join(dir, "mdtrans.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true, Version: "test-v1"}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestStoreChangeDetection tests the IsChanged/Update/Save cycle.
func TestStoreChangeDetection(t *testing.T) {
	t.Parallel()

	t.Run("unknown document is changed", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		changed, err := s.IsChanged(context.Background(), "README.md", []byte("hola"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !changed {
			t.Error("expected unknown document to be changed")
		}
	})

	t.Run("saved document with same content is unchanged", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		ctx := context.Background()
		content := []byte("# Hola\n\nTexto.\n")

		s.Update("README.md", content)
		if err := s.Save(ctx); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		changed, err := s.IsChanged(ctx, "README.md", content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if changed {
			t.Error("expected unchanged document")
		}
	})

	t.Run("saved document with edited content is changed", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		ctx := context.Background()

		s.Update("README.md", []byte("versión uno"))
		if err := s.Save(ctx); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		changed, err := s.IsChanged(ctx, "README.md", []byte("versión dos"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !changed {
			t.Error("expected edited document to be changed")
		}
	})

	t.Run("staged update is visible before save", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		content := []byte("contenido")

		s.Update("doc.md", content)
		changed, err := s.IsChanged(context.Background(), "doc.md", content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if changed {
			t.Error("expected staged fingerprint to count as stored")
		}
	})

	t.Run("unsaved updates are discarded on close", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ctx := context.Background()
		content := []byte("contenido")

		s, err := Open(dir, DefaultOptions("test-v1"))
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		s.Update("doc.md", content)
		if err := s.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}

		s2, err := Open(dir, DefaultOptions("test-v1"))
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer s2.Close()

		changed, err := s2.IsChanged(ctx, "doc.md", content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !changed {
			t.Error("expected unsaved update to have been discarded")
		}
	})

	t.Run("save persists across reopen", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ctx := context.Background()
		content := []byte("contenido")

		s, err := Open(dir, DefaultOptions("test-v1"))
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		s.Update("doc.md", content)
		if err := s.Save(ctx); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}

		s2, err := Open(dir, DefaultOptions("test-v1"))
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer s2.Close()

		changed, err := s2.IsChanged(ctx, "doc.md", content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if changed {
			t.Error("expected saved fingerprint to survive reopen")
		}
	})
}

// TestStoreVersionInvalidation tests wholesale invalidation on version
// mismatch.
func TestStoreVersionInvalidation(t *testing.T) {
	t.Parallel()

	t.Run("version change discards entries", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ctx := context.Background()
		content := []byte("contenido")

		s, err := Open(dir, DefaultOptions("v1"))
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		s.Update("doc.md", content)
		if err := s.Save(ctx); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}

		s2, err := Open(dir, DefaultOptions("v2"))
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer s2.Close()

		changed, err := s2.IsChanged(ctx, "doc.md", content)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !changed {
			t.Error("expected version bump to invalidate entries")
		}

		entries, err := s2.Entries(ctx)
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("expected no entries after invalidation, got %d", len(entries))
		}
	})

	t.Run("same version keeps entries", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		ctx := context.Background()

		s, err := Open(dir, DefaultOptions("v1"))
		if err != nil {
			t.Fatalf("failed to open store: %v", err)
		}
		s.Update("a.md", []byte("a"))
		s.Update("b.md", []byte("b"))
		if err := s.Save(ctx); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}

		s2, err := Open(dir, DefaultOptions("v1"))
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		defer s2.Close()

		entries, err := s2.Entries(ctx)
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Name != "a.md" || entries[1].Name != "b.md" {
			t.Errorf("unexpected entry order: %v", entries)
		}
	})
}

// TestLookup tests direct entry retrieval.
func TestLookup(t *testing.T) {
	t.Parallel()

	t.Run("missing entry returns nil", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		entry, err := s.Lookup(context.Background(), "missing.md")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry != nil {
			t.Errorf("expected nil entry, got %+v", entry)
		}
	})

	t.Run("saved entry round-trips", func(t *testing.T) {
		t.Parallel()

		s := setupTestStore(t)
		ctx := context.Background()
		content := []byte("contenido")

		s.Update("doc.md", content)
		if err := s.Save(ctx); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		entry, err := s.Lookup(ctx, "doc.md")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry == nil {
			t.Fatal("expected entry")
		}
		if entry.Fingerprint != Fingerprint(content) {
			t.Errorf("unexpected fingerprint: %q", entry.Fingerprint)
		}
		if entry.TranslatedAt.IsZero() {
			t.Error("expected parsed timestamp")
		}
	})
}
