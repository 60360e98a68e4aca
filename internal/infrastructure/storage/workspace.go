package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"face-assess-bot/internal/domain/port"
)

const minSweepInterval = 10 * time.Millisecond

// WorkspaceStore выдаёт каждому запросу собственный каталог внутри root.
// Имена каталогов уникальны, поэтому параллельные запросы не пишут в
// одни и те же файлы.
type WorkspaceStore struct {
	root string
	ttl  time.Duration
}

// NewWorkspaceStore создаёт корневой каталог, если его нет.
func NewWorkspaceStore(root string, ttl time.Duration) (*WorkspaceStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &WorkspaceStore{root: root, ttl: ttl}, nil
}

// New создаёт каталог запроса вида <root>/<unix-nanos>_<uuid>.
func (s *WorkspaceStore) New() (port.Workspace, error) {
	id := uuid.New().String()
	dir := filepath.Join(s.root, fmt.Sprintf("%d_%s", time.Now().UnixNano(), id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", id, err)
	}
	return &workspace{id: id, dir: dir}, nil
}

// Sweep удаляет каталоги старше ttl и возвращает их количество.
func (s *WorkspaceStore) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read workspace root: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= s.ttl {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			slog.Warn("failed to remove stale workspace", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// RunSweeper периодически вызывает Sweep, пока не отменён ctx. Интервал
// меньше minSweepInterval поднимается до него.
func (s *WorkspaceStore) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := s.Sweep(now)
			if err != nil {
				slog.Warn("workspace sweep failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("stale workspaces removed", "count", n)
			}
		}
	}
}

type workspace struct {
	id  string
	dir string
}

func (w *workspace) ID() string  { return w.id }
func (w *workspace) Dir() string { return w.dir }

func (w *workspace) Path(name string) string {
	return filepath.Join(w.dir, filepath.Base(name))
}

func (w *workspace) Cleanup() error {
	return os.RemoveAll(w.dir)
}

var _ port.WorkspaceFactory = (*WorkspaceStore)(nil)
