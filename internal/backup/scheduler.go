// Package backup takes periodic file-level snapshots of the catalogue
// database. SQLite keeps everything in one file, so a copy taken
// between operations is a complete, restorable backup.
package backup

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Options configures the backup scheduler.
type Options struct {
	DatabasePath string
	Dir          string
	Schedule     string // Cron format: "0 3 * * *" = daily at 03:00
	Keep         int    // Number of backup files to retain
}

// Scheduler manages periodic database backups.
type Scheduler struct {
	opts Options
	cron *cron.Cron

	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler instance.
func NewScheduler(opts Options) *Scheduler {
	return &Scheduler{
		opts: opts,
		cron: cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the schedule. The backup directory is created if absent.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := os.MkdirAll(s.opts.Dir, 0755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	if _, err := s.cron.AddFunc(s.opts.Schedule, func() {
		if err := s.RunOnce(); err != nil {
			log.Printf("Backup failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid backup schedule '%s': %w", s.opts.Schedule, err)
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Backup scheduler started (schedule: %s, dir: %s)", s.opts.Schedule, s.opts.Dir)
	return nil
}

// Stop halts the schedule. A backup in flight is allowed to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	<-s.cron.Stop().Done()
	s.isRunning = false
	log.Println("Backup scheduler stopped")
}

// RunOnce takes a single backup and prunes old ones. Exposed so it can
// be invoked outside the schedule.
func (s *Scheduler) RunOnce() error {
	name := fmt.Sprintf("library-%s.db", time.Now().Format("20060102-150405"))
	dst := filepath.Join(s.opts.Dir, name)

	if err := copyFile(s.opts.DatabasePath, dst); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}
	log.Printf("Backup written to %s", dst)

	return s.prune()
}

// prune removes the oldest backups beyond the retention count.
func (s *Scheduler) prune() error {
	if s.opts.Keep <= 0 {
		return nil
	}

	matches, err := filepath.Glob(filepath.Join(s.opts.Dir, "library-*.db"))
	if err != nil {
		return err
	}
	if len(matches) <= s.opts.Keep {
		return nil
	}

	// Timestamped names sort chronologically
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-s.opts.Keep] {
		if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
			return err
		}
		log.Printf("Pruned old backup %s", old)
	}
	return nil
}

// copyFile copies src to dst via a temp file in the same directory so
// a partially written backup is never left behind under the final name.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmpFile, err := os.CreateTemp(filepath.Dir(dst), "backup_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, dst)
}
