package saves

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	"github.com/matzehuels/wikilist/pkg/tree"
)

func newTestStore(t *testing.T, opts Options) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func sampleTree(title, item string) *tree.Tree {
	t := tree.New(title)
	arts := t.AddRoot(&tree.Node{Key: "Sword arts", Kind: tree.KindCategory})
	arts.AddChild(&tree.Node{Key: item, Kind: tree.KindItem, Description: "A stance."})
	return t
}

func TestFileStorePutGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	info, err := s.Put(ctx, "arts", sampleTree("List of Combat Arts", "Middle Guard"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.ID != "arts" || info.Title != "List of Combat Arts" || info.Size == 0 {
		t.Errorf("Put info = %+v", info)
	}
	if _, err := os.Stat(filepath.Join(s.Path(), "arts.json.gz")); err != nil {
		t.Errorf("save file missing: %v", err)
	}

	got, err := s.Get(ctx, "arts")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title() != "List of Combat Arts" {
		t.Errorf("Title() = %q", got.Title())
	}
	if leaf := got.Roots[0].Children[0]; leaf.Key != "Middle Guard" || leaf.Description != "A stance." {
		t.Errorf("leaf = %+v", leaf)
	}
}

func TestFileStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	if _, err := s.Get(ctx, "missing"); !wlerrors.Is(err, wlerrors.ErrCodeSaveNotFound) {
		t.Errorf("Get: got %v, want SAVE_NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "missing"); !wlerrors.Is(err, wlerrors.ErrCodeSaveNotFound) {
		t.Errorf("Delete: got %v, want SAVE_NOT_FOUND", err)
	}
	if _, err := s.Backups(ctx, "missing"); !wlerrors.Is(err, wlerrors.ErrCodeSaveNotFound) {
		t.Errorf("Backups: got %v, want SAVE_NOT_FOUND", err)
	}
	if _, err := s.Restore(ctx, "missing", "backup_20261018T120001.000000000Z.json.gz"); !wlerrors.Is(err, wlerrors.ErrCodeSaveNotFound) {
		t.Errorf("Restore: got %v, want SAVE_NOT_FOUND", err)
	}
}

func TestFileStoreInvalidIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	for _, id := range []string{"", "../escape", `a\b`, ".hidden"} {
		if _, err := s.Put(ctx, id, tree.New("x")); !wlerrors.Is(err, wlerrors.ErrCodeInvalidInput) {
			t.Errorf("Put(%q): got %v, want INVALID_INPUT", id, err)
		}
	}
	if _, err := s.Restore(ctx, "arts", "../../arts.json.gz"); !wlerrors.Is(err, wlerrors.ErrCodeInvalidInput) {
		t.Errorf("Restore with bad name: got %v, want INVALID_INPUT", err)
	}
}

func TestFileStoreList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	for id, title := range map[string]string{"b": "List of Oaths", "a": "List of Arts", "c": "List of Arts"} {
		if _, err := s.Put(ctx, id, sampleTree(title, "X")); err != nil {
			t.Fatal(err)
		}
	}
	// Stray files are not saves.
	os.WriteFile(filepath.Join(s.Path(), "notes.txt"), []byte("x"), 0600)
	os.WriteFile(filepath.Join(s.Path(), "broken.json.gz"), []byte("not gzip"), 0600)

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var ids []string
	for _, info := range list {
		ids = append(ids, info.ID)
	}
	want := []string{"a", "c", "b"}
	if len(ids) != len(want) {
		t.Fatalf("List ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("List ids = %v, want %v", ids, want)
			break
		}
	}
}

func TestFileStoreBackupRotation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{MaxBackups: 3})

	items := []string{"v1", "v2", "v3", "v4", "v5", "v6"}
	for _, item := range items {
		if _, err := s.Put(ctx, "arts", sampleTree("Arts", item)); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := s.Backups(ctx, "arts")
	if err != nil {
		t.Fatalf("Backups: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("len(Backups) = %d, want 3", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].CreatedAt.After(backups[i].CreatedAt) {
			t.Errorf("backups not newest first: %v", backups)
		}
	}

	// Newest backup holds the content replaced by the last Put.
	restored, err := s.Restore(ctx, "arts", backups[0].Name)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := restored.Roots[0].Children[0].Key; got != "v5" {
		t.Errorf("restored item = %q, want v5", got)
	}
	current, _ := s.Get(ctx, "arts")
	if got := current.Roots[0].Children[0].Key; got != "v5" {
		t.Errorf("current item after restore = %q, want v5", got)
	}

	// Restoring backed up v6, still within the limit.
	backups, _ = s.Backups(ctx, "arts")
	if len(backups) != 3 {
		t.Fatalf("len(Backups) after restore = %d, want 3", len(backups))
	}
	old, err := s.Restore(ctx, "arts", backups[0].Name)
	if err != nil {
		t.Fatal(err)
	}
	if got := old.Roots[0].Children[0].Key; got != "v6" {
		t.Errorf("newest backup after restore = %q, want v6", got)
	}
}

func TestFileStoreSkipUnchangedBackup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	same := sampleTree("Arts", "Middle Guard")
	for range 4 {
		if _, err := s.Put(ctx, "arts", same); err != nil {
			t.Fatal(err)
		}
	}
	backups, err := s.Backups(ctx, "arts")
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("len(Backups) = %d, want 1 for repeated identical saves", len(backups))
	}
}

func TestFileStoreBackupsDisabled(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{DisableBackups: true})

	s.Put(ctx, "arts", sampleTree("Arts", "v1"))
	s.Put(ctx, "arts", sampleTree("Arts", "v2"))

	backups, err := s.Backups(ctx, "arts")
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("len(Backups) = %d, want 0", len(backups))
	}
}

func TestFileStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})

	s.Put(ctx, "arts", sampleTree("Arts", "v1"))
	s.Put(ctx, "arts", sampleTree("Arts", "v2"))
	if err := s.Delete(ctx, "arts"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Path(), "backups", "arts")); !os.IsNotExist(err) {
		t.Errorf("backup dir still present: %v", err)
	}
	if _, err := s.Get(ctx, "arts"); !wlerrors.Is(err, wlerrors.ErrCodeSaveNotFound) {
		t.Errorf("Get after Delete: %v", err)
	}
}

func TestFileStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})
	s.now = time.Now

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				s.Put(ctx, "arts", sampleTree("Arts", "Guard"))
			} else {
				s.List(ctx)
			}
		}()
	}
	wg.Wait()

	if _, err := s.Get(ctx, "arts"); err != nil {
		t.Errorf("Get: %v", err)
	}
}

func TestNewFileStoreEmptyDir(t *testing.T) {
	if _, err := NewFileStore("", Options{}); !wlerrors.Is(err, wlerrors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want INVALID_INPUT", err)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Error("NewID returned duplicates")
	}
	if err := ValidateID(a); err != nil {
		t.Errorf("ValidateID(NewID()) = %v", err)
	}
}

func TestBackupName(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 5, time.UTC)
	name := backupName(at)
	if name != "backup_20261018T093000.000000005Z.json.gz" {
		t.Errorf("backupName = %q", name)
	}
	got, ok := backupTime(name)
	if !ok || !got.Equal(at) {
		t.Errorf("backupTime(%q) = %v, %v", name, got, ok)
	}
	for _, bad := range []string{"arts.json.gz", "backup_yesterday.json.gz", "backup_20261018T093000.000000005Z.json"} {
		if _, ok := backupTime(bad); ok {
			t.Errorf("backupTime(%q) accepted", bad)
		}
	}
}
