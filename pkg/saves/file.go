package saves

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	wlio "github.com/matzehuels/wikilist/pkg/io"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// FileStore keeps saves as gzip-compressed JSON files in a directory:
//
//	<dir>/<id>.json.gz
//	<dir>/backups/<id>/backup_<timestamp>.json.gz
type FileStore struct {
	mu   sync.RWMutex
	dir  string
	opts Options
	now  func() time.Time
}

// NewFileStore creates a store in dir, creating the directory if needed.
func NewFileStore(dir string, opts Options) (*FileStore, error) {
	if dir == "" {
		return nil, wlerrors.New(wlerrors.ErrCodeInvalidInput, "save directory is empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &FileStore{dir: dir, opts: opts, now: time.Now}, nil
}

// Path returns the save directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) savePath(id string) string {
	return filepath.Join(s.dir, id+saveExt)
}

func (s *FileStore) backupDir(id string) string {
	return filepath.Join(s.dir, "backups", id)
}

func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read save dir: %w", err)
	}

	var out []Info
	for _, e := range entries {
		id, ok := strings.CutSuffix(e.Name(), saveExt)
		if e.IsDir() || !ok {
			continue
		}
		info, err := s.stat(id)
		if err != nil {
			// Unreadable files are not saves.
			continue
		}
		out = append(out, info)
	}
	slices.SortFunc(out, func(a, b Info) int {
		if c := strings.Compare(a.Title, b.Title); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *FileStore) stat(id string) (Info, error) {
	path := s.savePath(id)
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	t, err := wlio.ImportJSON(path)
	if err != nil {
		return Info{}, err
	}
	return Info{ID: id, Title: t.Title(), UpdatedAt: fi.ModTime(), Size: fi.Size()}, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*tree.Tree, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.savePath(id), id)
}

func (s *FileStore) read(path, id string) (*tree.Tree, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("read save: %w", err)
	}
	defer f.Close()
	return wlio.ReadJSON(f)
}

func (s *FileStore) Put(ctx context.Context, id string, t *tree.Tree) (Info, error) {
	if err := ValidateID(id); err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(id, t)
}

func (s *FileStore) put(id string, t *tree.Tree) (Info, error) {
	var buf bytes.Buffer
	if err := wlio.WriteGzip(t, &buf); err != nil {
		return Info{}, fmt.Errorf("encode save: %w", err)
	}

	path := s.savePath(id)
	if !s.opts.DisableBackups {
		prev, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := s.backup(id, prev); err != nil {
				return Info{}, err
			}
		case !os.IsNotExist(err):
			return Info{}, fmt.Errorf("read save: %w", err)
		}
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return Info{}, err
	}
	return Info{ID: id, Title: t.Title(), UpdatedAt: s.now(), Size: int64(buf.Len())}, nil
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write save: %w", err)
	}
	return nil
}

// backup stores data as the newest backup of id unless the newest backup
// already holds it, then trims old backups.
func (s *FileStore) backup(id string, data []byte) error {
	dir := s.backupDir(id)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	names, err := s.backupNames(id)
	if err != nil {
		return err
	}
	if len(names) > 0 {
		newest, err := os.ReadFile(filepath.Join(dir, names[0]))
		if err == nil && bytes.Equal(newest, data) {
			return nil
		}
	}

	name := backupName(s.now())
	if err := writeFile(filepath.Join(dir, name), data); err != nil {
		return err
	}
	names = append([]string{name}, slices.DeleteFunc(names, func(n string) bool { return n == name })...)

	for _, old := range names[min(len(names), s.opts.maxBackups()):] {
		if err := os.Remove(filepath.Join(dir, old)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove backup: %w", err)
		}
	}
	return nil
}

// backupNames returns the backup file names of id, newest first.
func (s *FileStore) backupNames(id string) ([]string, error) {
	entries, err := os.ReadDir(s.backupDir(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if _, ok := backupTime(e.Name()); ok && !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	slices.Reverse(names)
	return names, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.savePath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove save: %w", err)
	}
	if err := os.RemoveAll(s.backupDir(id)); err != nil {
		return fmt.Errorf("remove backups: %w", err)
	}
	return nil
}

func (s *FileStore) Backups(ctx context.Context, id string) ([]Backup, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := os.Stat(s.savePath(id)); os.IsNotExist(err) {
		return nil, notFound(id)
	}
	names, err := s.backupNames(id)
	if err != nil {
		return nil, err
	}
	out := make([]Backup, 0, len(names))
	for _, name := range names {
		fi, err := os.Stat(filepath.Join(s.backupDir(id), name))
		if err != nil {
			continue
		}
		at, _ := backupTime(name)
		out = append(out, Backup{Name: name, CreatedAt: at, Size: fi.Size()})
	}
	return out, nil
}

func (s *FileStore) Restore(ctx context.Context, id, backup string) (*tree.Tree, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if _, ok := backupTime(backup); !ok {
		return nil, wlerrors.New(wlerrors.ErrCodeInvalidInput, "invalid backup name: %q", backup)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.read(filepath.Join(s.backupDir(id), backup), id+"/"+backup)
	if err != nil {
		return nil, err
	}
	if _, err := s.put(id, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
