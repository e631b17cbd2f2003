package saves

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	wlerrors "github.com/matzehuels/wikilist/pkg/errors"
	"github.com/matzehuels/wikilist/pkg/tree"
)

// DefaultMaxBackups is the number of backups kept per save when no limit is
// configured.
const DefaultMaxBackups = 5

// Info describes a stored save.
type Info struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UpdatedAt time.Time `json:"updated_at"`
	Size      int64     `json:"size"`
}

// Backup describes one backup of a save. Name identifies it within the save.
type Backup struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// Store persists manual trees.
//
// Get, Delete, Backups and Restore return an error with code
// SAVE_NOT_FOUND when the save (or the named backup) does not exist.
type Store interface {
	// List returns all saves ordered by title, then ID.
	List(ctx context.Context) ([]Info, error)

	// Get loads the tree stored under id.
	Get(ctx context.Context, id string) (*tree.Tree, error)

	// Put stores t under id, creating or overwriting the save.
	Put(ctx context.Context, id string, t *tree.Tree) (Info, error)

	// Delete removes the save and its backups.
	Delete(ctx context.Context, id string) error

	// Backups lists the backups of a save, newest first.
	Backups(ctx context.Context, id string) ([]Backup, error)

	// Restore replaces the save with the named backup and returns the
	// restored tree. The content being replaced is backed up first.
	Restore(ctx context.Context, id, backup string) (*tree.Tree, error)

	// Close releases backend resources.
	Close() error
}

// Options configures the backup behavior of a store.
type Options struct {
	// MaxBackups caps the backups kept per save. Zero means
	// [DefaultMaxBackups].
	MaxBackups int

	// DisableBackups turns off backups on overwrite.
	DisableBackups bool
}

func (o Options) maxBackups() int {
	if o.MaxBackups <= 0 {
		return DefaultMaxBackups
	}
	return o.MaxBackups
}

// NewID returns a fresh random save ID.
func NewID() string {
	return uuid.NewString()
}

// ValidateID rejects IDs that are empty or could escape the save directory.
func ValidateID(id string) error {
	switch {
	case id == "":
		return wlerrors.New(wlerrors.ErrCodeInvalidInput, "save id is empty")
	case strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, "."):
		return wlerrors.New(wlerrors.ErrCodeInvalidInput, "invalid save id: %q", id)
	}
	return nil
}

func notFound(id string) error {
	return wlerrors.New(wlerrors.ErrCodeSaveNotFound, "save not found: %s", id)
}

const (
	backupPrefix = "backup_"
	saveExt      = ".json.gz"

	// backupStamp sorts lexicographically in time order.
	backupStamp = "20060102T150405.000000000Z"
)

func backupName(at time.Time) string {
	return backupPrefix + at.UTC().Format(backupStamp) + saveExt
}

func backupTime(name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, backupPrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, saveExt)
	if !ok {
		return time.Time{}, false
	}
	at, err := time.Parse(backupStamp, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
