package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	filePrefix         = "openbnf-"
	defaultRetention   = 4
	defaultMaxFileSize = 100 * 1024 * 1024
)

// rotatingFile writes to one file per ISO week, starting a numbered
// continuation file when the size cap is reached. Files older than the
// retention period are removed whenever the week changes.
type rotatingFile struct {
	dir       string
	retention time.Duration
	maxSize   int64
	now       func() time.Time

	mu   sync.Mutex
	file *os.File
	week string
	seq  int
	size int64
}

func newRotatingFile(dir string, retentionWeeks int, maxSize int64) *rotatingFile {
	if retentionWeeks <= 0 {
		retentionWeeks = defaultRetention
	}
	if maxSize <= 0 {
		maxSize = defaultMaxFileSize
	}
	return &rotatingFile{
		dir:       dir,
		retention: time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxSize:   maxSize,
		now:       time.Now,
	}
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func fileName(week string, seq int) string {
	if seq == 0 {
		return filePrefix + week + ".log"
	}
	return fmt.Sprintf("%s%s_%02d.log", filePrefix, week, seq)
}

// parseSeq returns the continuation number of a log file name for week.
func parseSeq(name, week string) (int, bool) {
	rest, ok := strings.CutPrefix(name, filePrefix+week)
	if !ok || !strings.HasSuffix(rest, ".log") {
		return 0, false
	}
	rest = strings.TrimSuffix(rest, ".log")
	if rest == "" {
		return 0, true
	}
	n, err := strconv.Atoi(strings.TrimPrefix(rest, "_"))
	if err != nil || !strings.HasPrefix(rest, "_") {
		return 0, false
	}
	return n, true
}

func (rf *rotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	week := weekKey(rf.now())
	switch {
	case rf.file == nil || week != rf.week:
		if err := rf.openWeek(week); err != nil {
			return 0, err
		}
		rf.removeExpired()
	case rf.size > 0 && rf.size+int64(len(p)) > rf.maxSize:
		if err := rf.open(week, rf.seq+1); err != nil {
			return 0, err
		}
	}

	n, err := rf.file.Write(p)
	rf.size += int64(n)
	return n, err
}

// openWeek resumes the latest file of week, or starts its next continuation
// when that file is full.
func (rf *rotatingFile) openWeek(week string) error {
	entries, err := os.ReadDir(rf.dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	seq, found := 0, false
	for _, e := range entries {
		if n, ok := parseSeq(e.Name(), week); ok && (!found || n > seq) {
			seq, found = n, true
		}
	}

	if found {
		if info, err := os.Stat(filepath.Join(rf.dir, fileName(week, seq))); err == nil && info.Size() >= rf.maxSize {
			seq++
		}
	}
	return rf.open(week, seq)
}

func (rf *rotatingFile) open(week string, seq int) error {
	if rf.file != nil {
		if err := rf.file.Close(); err != nil {
			slog.Warn("Failed to close log file during rotation", "error", err)
		}
		rf.file = nil
	}

	path := filepath.Join(rf.dir, fileName(week, seq))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rf.size = 0
	if info, err := f.Stat(); err == nil {
		rf.size = info.Size()
	}
	rf.file, rf.week, rf.seq = f, week, seq
	return nil
}

// removeExpired deletes log files last written before the retention period.
func (rf *rotatingFile) removeExpired() {
	entries, err := os.ReadDir(rf.dir)
	if err != nil {
		return
	}

	cutoff := rf.now().Add(-rf.retention)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		if rf.file != nil && filepath.Base(rf.file.Name()) == name {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(rf.dir, name))
	}
}

func (rf *rotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	if rf.file == nil {
		return nil
	}
	err := rf.file.Close()
	rf.file = nil
	return err
}
