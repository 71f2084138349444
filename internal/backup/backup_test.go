package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/nutrilog/internal/constants"
	"github.com/julianstephens/nutrilog/internal/foodlog"
	"github.com/julianstephens/nutrilog/internal/models"
	"github.com/julianstephens/nutrilog/internal/storage"
)

// setupStore creates an initialized food log with one entry and returns its path.
func setupStore(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	provider := storage.New(path)
	if err := provider.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	defer provider.Close()

	entry := models.Entry{ID: "first", Name: "Apple", Calories: 95, Date: time.Now()}
	if err := foodlog.NewStore(provider).Save(entry); err != nil {
		t.Fatalf("failed to save entry: %v", err)
	}
	return path
}

// steppingClock returns a clock that advances by step on every call.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(step)
		return t
	}
}

func entryIDs(t *testing.T, path string) []string {
	t.Helper()
	provider := storage.New(path)
	if err := provider.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	defer provider.Close()

	entries, err := foodlog.NewStore(provider).GetAll()
	if err != nil {
		t.Fatalf("failed to read entries: %v", err)
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestCreateBackup(t *testing.T) {
	for _, name := range []string{"nutrilog.db", "nutrilog.json"} {
		t.Run(name, func(t *testing.T) {
			path := setupStore(t, name)
			mgr := NewManager(path)

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}
			if !strings.HasPrefix(filepath.Base(backupPath), constants.BackupFilePrefix) {
				t.Errorf("backup name %q lacks prefix %q", backupPath, constants.BackupFilePrefix)
			}
			if filepath.Ext(backupPath) != filepath.Ext(name) {
				t.Errorf("backup extension = %q, want %q", filepath.Ext(backupPath), filepath.Ext(name))
			}

			ids := entryIDs(t, backupPath)
			if len(ids) != 1 || ids[0] != "first" {
				t.Errorf("backup entries = %v, want [first]", ids)
			}
		})
	}
}

func TestBackupRotation(t *testing.T) {
	path := setupStore(t, "nutrilog.db")
	mgr := NewManager(path)
	mgr.now = steppingClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local), time.Minute)

	numBackups := constants.MaxBackups + 5
	for i := 0; i < numBackups; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups are not sorted correctly: backup %d is newer than backup %d", i, i-1)
		}
	}
}

func TestListBackups(t *testing.T) {
	path := setupStore(t, "nutrilog.json")
	mgr := NewManager(path)
	mgr.now = steppingClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local), time.Hour)

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups initially, got %d", len(backups))
	}
	if _, ok, _ := mgr.Latest(); ok {
		t.Error("Latest() reported a backup in an empty directory")
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
	}

	// Unrelated files are ignored
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), constants.BackupFilePrefix+"garbage.json"), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for _, b := range backups {
		if b.Size == 0 {
			t.Errorf("backup %s has size 0", b.Path)
		}
	}

	latest, ok, err := mgr.Latest()
	if err != nil || !ok {
		t.Fatalf("Latest() = %v, %v", ok, err)
	}
	if want := time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local); !latest.Timestamp.Equal(want) {
		t.Errorf("Latest() timestamp = %v, want %v", latest.Timestamp, want)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	path := setupStore(t, "nutrilog.db")
	mgr := NewManager(path)
	fixed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d failed: %v", i, err)
		}
		if seen[p] {
			t.Errorf("duplicate backup path %s", p)
		}
		seen[p] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups with counters, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	for _, name := range []string{"nutrilog.db", "nutrilog.json"} {
		t.Run(name, func(t *testing.T) {
			path := setupStore(t, name)
			mgr := NewManager(path)
			mgr.now = steppingClock(time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local), time.Minute)

			backupPath, err := mgr.CreateBackup()
			if err != nil {
				t.Fatalf("CreateBackup failed: %v", err)
			}

			// Change the log after the snapshot
			provider := storage.New(path)
			if err := provider.Load(); err != nil {
				t.Fatal(err)
			}
			if err := foodlog.NewStore(provider).Save(models.Entry{ID: "second", Date: time.Now()}); err != nil {
				t.Fatal(err)
			}
			provider.Close()

			previous, err := mgr.RestoreBackup(backupPath)
			if err != nil {
				t.Fatalf("RestoreBackup failed: %v", err)
			}
			if previous == "" {
				t.Error("expected a pre-restore backup of the current log")
			}

			if ids := entryIDs(t, path); len(ids) != 1 || ids[0] != "first" {
				t.Errorf("restored entries = %v, want [first]", ids)
			}
			if ids := entryIDs(t, previous); len(ids) != 2 {
				t.Errorf("pre-restore backup entries = %v, want 2", ids)
			}
		})
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	for _, name := range []string{"nutrilog.db", "nutrilog.json"} {
		t.Run(name, func(t *testing.T) {
			path := setupStore(t, name)
			mgr := NewManager(path)

			if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
				t.Fatal(err)
			}
			corrupt := filepath.Join(mgr.GetBackupDir(), constants.BackupFilePrefix+"20260301-080000"+filepath.Ext(name))
			if err := os.WriteFile(corrupt, []byte("this is not a store"), 0600); err != nil {
				t.Fatal(err)
			}

			if _, err := mgr.RestoreBackup(corrupt); err == nil {
				t.Error("expected error restoring a corrupted backup")
			}
			if ids := entryIDs(t, path); len(ids) != 1 {
				t.Errorf("food log changed after failed restore: %v", ids)
			}
		})
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	path := setupStore(t, "nutrilog.db")
	if _, err := NewManager(path).RestoreBackup(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for a missing backup file")
	}
}

func TestBackupWithNoStore(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nutrilog.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error when the food log does not exist")
	}
}

func TestBackupDirectoryCreation(t *testing.T) {
	path := setupStore(t, "nutrilog.json")
	mgr := NewManager(path)

	if _, err := os.Stat(mgr.GetBackupDir()); !os.IsNotExist(err) {
		t.Fatal("backup directory should not exist before the first backup")
	}
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	info, err := os.Stat(mgr.GetBackupDir())
	if err != nil {
		t.Fatalf("backup directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("backup path is not a directory")
	}
}
