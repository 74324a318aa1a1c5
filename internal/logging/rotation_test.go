package logging

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fillTo writes lines of 1KiB until the writer has emitted at least n bytes.
func fillTo(t *testing.T, rw *RotatingWriter, n int) {
	t.Helper()

	line := []byte(strings.Repeat("x", 1023) + "\n")
	for written := 0; written < n; written += len(line) {
		if _, err := rw.Write(line); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
}

func TestNewRotatingWriter(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

		rw, err := NewRotatingWriter(path, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		defer func() { _ = rw.Close() }()

		if _, err := os.Stat(path); err != nil {
			t.Errorf("log file was not created: %v", err)
		}
		if rw.Path() != path {
			t.Errorf("Path() = %q, want %q", rw.Path(), path)
		}
	})

	t.Run("appends to existing file and picks up its size", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(path, []byte("initial\n"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		rw, err := NewRotatingWriter(path, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		if rw.Size() != int64(len("initial\n")) {
			t.Errorf("Size() = %d", rw.Size())
		}
		_, _ = rw.Write([]byte("appended\n"))
		_ = rw.Close()

		content, _ := os.ReadFile(path)
		if string(content) != "initial\nappended\n" {
			t.Errorf("content = %q", content)
		}
	})
}

func TestRotatingWriterRotation(t *testing.T) {
	t.Run("rotates past the size limit", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 2})
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}

		fillTo(t, rw, 1024*1024+4096)
		_ = rw.Close()

		if _, err := os.Stat(path + ".1"); err != nil {
			t.Errorf("expected backup .1: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("live file missing: %v", err)
		}
		if info.Size() >= 1024*1024 {
			t.Errorf("live file not rotated, size %d", info.Size())
		}
	})

	t.Run("keeps at most MaxBackups files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 2})
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}

		fillTo(t, rw, 4*1024*1024+4096)
		_ = rw.Close()

		for _, suffix := range []string{".1", ".2"} {
			if _, err := os.Stat(path + suffix); err != nil {
				t.Errorf("expected backup %s: %v", suffix, err)
			}
		}
		if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
			t.Errorf("backup .3 should not exist")
		}
	})

	t.Run("zero backups truncates in place", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1})
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}

		fillTo(t, rw, 1024*1024+4096)
		_ = rw.Close()

		if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
			t.Errorf("backup .1 should not exist")
		}
	})

	t.Run("zero size disables rotation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.log")
		rw, err := NewRotatingWriter(path, RotationConfig{MaxBackups: 3})
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}

		fillTo(t, rw, 1024*1024+4096)
		_ = rw.Close()

		if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
			t.Errorf("backup .1 should not exist")
		}
	})
}

func TestRotatingWriterCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 1, Compress: true})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}

	fillTo(t, rw, 1024*1024+4096)
	// Close waits for the background gzip job.
	_ = rw.Close()

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Errorf("uncompressed backup should have been removed")
	}

	f, err := os.Open(path + ".1.gz")
	if err != nil {
		t.Fatalf("compressed backup missing: %v", err)
	}
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader failed: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("failed to read compressed backup: %v", err)
	}
	if len(data) < 1024*1024-2048 {
		t.Errorf("compressed backup too small: %d bytes", len(data))
	}
}

func TestRotatingWriterConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 5})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			line := []byte(strings.Repeat("y", 511) + "\n")
			for j := 0; j < 500; j++ {
				if _, err := rw.Write(line); err != nil {
					t.Errorf("Write failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if err := rw.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestRotatingWriterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	rw, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}

	if err := rw.Sync(); err != nil {
		t.Errorf("Sync() = %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, err := rw.Write([]byte("late")); err == nil {
		t.Error("Write after Close should fail")
	}
	if err := rw.Sync(); err != nil {
		t.Errorf("Sync() after Close = %v", err)
	}
}

func TestNewLoggerWithRotation(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLoggerWithRotation(dir, LevelDebug, RotationConfig{MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("NewLoggerWithRotation failed: %v", err)
	}

	payload := strings.Repeat("z", 2048)
	for i := 0; i < 700; i++ {
		logger.Debug("bulk", "payload", payload)
	}
	_ = logger.Close()

	if _, err := os.Stat(filepath.Join(dir, LogFileName+".1")); err != nil {
		t.Errorf("expected rotated backup: %v", err)
	}
}

func TestDefaultRotationConfig(t *testing.T) {
	cfg := DefaultRotationConfig()
	if cfg.MaxSizeMB != 10 || cfg.MaxBackups != 3 || cfg.Compress {
		t.Errorf("DefaultRotationConfig() = %+v", cfg)
	}
}
