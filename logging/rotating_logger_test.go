package logging

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestRotatingLogger(t *testing.T) {
	tempDir := t.TempDir()

	rl := NewRotatingLogger(tempDir, 1)

	rl.mu.Lock()
	err := rl.doRotate(getWeekKey(time.Now()))
	rl.mu.Unlock()
	if err != nil {
		t.Fatalf("Failed to rotate: %v", err)
	}

	// Current week's file should exist after rotation
	currentWeek := getWeekKey(time.Now())
	expectedFileName := filepath.Join(tempDir, "app-"+currentWeek+".log")
	if _, statErr := os.Stat(expectedFileName); os.IsNotExist(statErr) {
		t.Errorf("Expected log file %s was not created", expectedFileName)
	}

	testMessage := "prediction pipeline finished"
	_, err = rl.Write([]byte(testMessage))
	if err != nil {
		t.Fatalf("Failed to write to log: %v", err)
	}

	content, err := os.ReadFile(expectedFileName)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), testMessage) {
		t.Errorf("Log file does not contain test message: %s", string(content))
	}

	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("Failed to cleanup old logs: %v", err)
	}

	if err := rl.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}
}

func TestGetWeekKey(t *testing.T) {
	testTime := time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC)
	weekKey := getWeekKey(testTime)

	// 2025-10-07 falls in ISO week 41
	expected := "2025-W41"
	if weekKey != expected {
		t.Errorf("Expected week key %s, got %s", expected, weekKey)
	}
}

func TestRotatingLoggerWeekBoundary(t *testing.T) {
	tempDir := t.TempDir()

	rl := NewRotatingLogger(tempDir, 1)
	defer func() { _ = rl.Close() }()

	weeks := []string{"2025-W40", "2025-W41"}
	for _, week := range weeks {
		rl.currentWeek = week
		rl.mu.Lock()
		err := rl.doRotate(week)
		rl.mu.Unlock()
		if err != nil {
			t.Fatalf("Failed to rotate to %s: %v", week, err)
		}
		if _, err := rl.Write([]byte("entry for " + week)); err != nil {
			t.Fatalf("Failed to write for %s: %v", week, err)
		}
	}

	// Rotating forward must leave the previous week's file behind
	for _, week := range weeks {
		file := filepath.Join(tempDir, "app-"+week+".log")
		if _, err := os.Stat(file); os.IsNotExist(err) {
			t.Errorf("Expected log file for %s was not created", week)
		}
	}
}

func TestGlobalLoggingService(t *testing.T) {
	tempDir := t.TempDir()

	InitLogger(tempDir)

	if DefaultLoggingService == nil {
		t.Fatal("DefaultLoggingService was not initialized")
	}

	Info("analysis stored", "session", "s-1")

	currentWeek := getWeekKey(time.Now())
	expectedFileName := filepath.Join(tempDir, "app-"+currentWeek+".log")
	if _, err := os.Stat(expectedFileName); os.IsNotExist(err) {
		t.Errorf("Expected log file %s was not created", expectedFileName)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	tempDir := t.TempDir()

	rl := NewRotatingLogger(tempDir, 1)

	oldFile := filepath.Join(tempDir, "app-2025-W30.log")
	newFile := filepath.Join(tempDir, "app-"+getWeekKey(time.Now())+".log")

	if err := os.WriteFile(oldFile, []byte("stale entries"), 0644); err != nil {
		t.Fatalf("Failed to create old log file: %v", err)
	}

	// Age the old file past the retention window
	threeWeeksAgo := time.Now().AddDate(0, 0, -21)
	if err := os.Chtimes(oldFile, threeWeeksAgo, threeWeeksAgo); err != nil {
		t.Fatalf("Failed to set old file modification time: %v", err)
	}

	if err := os.WriteFile(newFile, []byte("current entries"), 0644); err != nil {
		t.Fatalf("Failed to create new log file: %v", err)
	}

	// Force cleanup past its once-a-day gate
	rl.lastCleanup = time.Now().Add(-25 * time.Hour)

	if err := rl.cleanupOldLogs(); err != nil {
		t.Fatalf("Failed to cleanup old logs: %v", err)
	}

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("Old log file %s was not deleted", oldFile)
	}

	if _, err := os.Stat(newFile); os.IsNotExist(err) {
		t.Errorf("New log file %s was incorrectly deleted", newFile)
	}
}

func TestRotatingLoggerWithSizeLimit(t *testing.T) {
	tempDir := t.TempDir()

	// Tiny limit so a single large write forces a size rotation
	rl := NewRotatingLoggerWithSizeLimit(tempDir, 1, 100)

	if err := rl.doRotate(getWeekKey(time.Now())); err != nil {
		t.Fatalf("Failed to rotate: %v", err)
	}

	if _, err := rl.Write([]byte("short entry")); err != nil {
		t.Fatalf("Failed to write small message: %v", err)
	}

	largeMessage := strings.Repeat("heuristic fallback engaged for session with long free text. ", 10)
	if _, err := rl.Write([]byte(largeMessage)); err != nil {
		t.Fatalf("Failed to write large message: %v", err)
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read log directory: %v", err)
	}

	logFiles := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "app-") && strings.HasSuffix(entry.Name(), ".log") {
			logFiles++
		}
	}

	if logFiles < 2 {
		t.Errorf("Expected at least 2 log files due to size rotation, got %d", logFiles)
	}

	// Size-rotated files carry a two-digit suffix before the extension
	hasNumberedFile := false
	numberedPattern := regexp.MustCompile(`_\d{2}\.log$`)
	for _, entry := range entries {
		if strings.Contains(entry.Name(), "_01.") || strings.Contains(entry.Name(), "_02.") {
			hasNumberedFile = true
			if !numberedPattern.MatchString(entry.Name()) {
				t.Errorf("Numbered file has incorrect format: %s", entry.Name())
			}
		}
	}

	if !hasNumberedFile {
		t.Error("Expected at least one numbered file due to large write")
	}

	if err := rl.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}
}

func TestRotatingLoggerInvalidDirectory(t *testing.T) {
	rl := NewRotatingLogger("/invalid/directory/that/does/not/exist", 1)

	if err := rl.doRotate(getWeekKey(time.Now())); err == nil {
		t.Error("Expected error when rotating with invalid directory, got nil")
	}

	if _, err := rl.Write([]byte("entry")); err == nil {
		t.Error("Expected error when writing with invalid directory, got nil")
	}

	// Close is still safe without an open file
	if err := rl.Close(); err != nil {
		t.Errorf("Unexpected error when closing logger with invalid directory: %v", err)
	}
}

func TestRotatingLoggerConcurrentWrites(t *testing.T) {
	tempDir := t.TempDir()

	rl := NewRotatingLogger(tempDir, 1)
	defer func() { _ = rl.Close() }()

	rl.mu.Lock()
	err := rl.doRotate(getWeekKey(time.Now()))
	rl.mu.Unlock()
	if err != nil {
		t.Fatalf("Failed to rotate: %v", err)
	}

	const numGoroutines = 10
	const numWrites = 5

	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			for j := 0; j < numWrites; j++ {
				message := fmt.Sprintf("request %d from worker %d", j, id)
				if _, writeErr := rl.Write([]byte(message)); writeErr != nil {
					t.Errorf("Concurrent write failed: %v", writeErr)
				}
			}
			done <- true
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	currentWeek := getWeekKey(time.Now())
	expectedFileName := filepath.Join(tempDir, "app-"+currentWeek+".log")
	content, err := os.ReadFile(expectedFileName)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if len(content) == 0 {
		t.Error("Log file is empty after concurrent writes")
	}
}

func TestRotatingLoggerConcurrentRotation(t *testing.T) {
	tempDir := t.TempDir()

	// Small limit so concurrent writers race through rotations
	rl := NewRotatingLoggerWithSizeLimit(tempDir, 1, 1000)
	defer func() {
		if err := rl.Close(); err != nil {
			t.Logf("Failed to close logger: %v", err)
		}
	}()

	rl.mu.Lock()
	err := rl.doRotate(getWeekKey(time.Now()))
	rl.mu.Unlock()
	if err != nil {
		t.Fatalf("Failed to rotate: %v", err)
	}

	const numGoroutines = 20
	const numWrites = 100
	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			message := fmt.Sprintf("worker %d: %s", id, strings.Repeat("x", 100))
			for j := 0; j < numWrites; j++ {
				if _, writeErr := rl.Write([]byte(message)); writeErr != nil {
					t.Errorf("Concurrent write failed: %v", writeErr)
				}
			}
			done <- true
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("Failed to read log directory: %v", err)
	}

	logFiles := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "app-") && strings.HasSuffix(entry.Name(), ".log") {
			logFiles++
		}
	}

	if logFiles < 1 {
		t.Error("Expected at least 1 log file")
	}
}

func TestRotatingLoggerEmptyAndOversizeWrites(t *testing.T) {
	tempDir := t.TempDir()

	rl := NewRotatingLogger(tempDir, 1)
	defer func() { _ = rl.Close() }()

	if _, err := rl.Write([]byte("")); err != nil {
		t.Errorf("Failed to write empty message: %v", err)
	}

	largeMessage := strings.Repeat("x", 10000)
	if _, err := rl.Write([]byte(largeMessage)); err != nil {
		t.Errorf("Failed to write large message: %v", err)
	}
}

func TestLoggingServiceMethods(t *testing.T) {
	tempDir := t.TempDir()

	InitLogger(tempDir)

	Info("extraction complete", "medicines", 2)
	Error("model call failed", "error", "timeout")
	Warn("falling back to heuristics")
	Debug("recovered payload", "bytes", 128)

	currentWeek := getWeekKey(time.Now())
	expectedFileName := filepath.Join(tempDir, "app-"+currentWeek+".log")
	if _, err := os.Stat(expectedFileName); os.IsNotExist(err) {
		t.Errorf("Expected log file %s was not created", expectedFileName)
	}
}

func TestInitLoggerFunctions(t *testing.T) {
	tempDir := t.TempDir()

	InitLogger(tempDir)
	if DefaultLoggingService == nil {
		t.Error("InitLogger did not initialize DefaultLoggingService")
	}

	if logger := SetupLoggerWithRetention(tempDir, 2); logger == nil {
		t.Error("SetupLoggerWithRetention returned nil")
	}

	Info("logger ready")
}

func TestMultiHandlerMethods(t *testing.T) {
	tempDir := t.TempDir()

	rotatingLogger := NewRotatingLogger(tempDir, 1)
	defer func() { _ = rotatingLogger.Close() }()

	fileHandler := slog.NewJSONHandler(rotatingLogger, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	multi := &multiHandler{
		handlers: []slog.Handler{consoleHandler, fileHandler},
	}

	if !multi.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected Enabled() to return true for info level")
	}

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "fan-out message", 0)
	if err := multi.Handle(context.Background(), record); err != nil {
		t.Errorf("Handle method failed: %v", err)
	}

	attrs := []slog.Attr{slog.String("session", "s-1")}
	if newHandler := multi.WithAttrs(attrs); newHandler == nil {
		t.Error("WithAttrs returned nil")
	}

	if newHandler := multi.WithGroup("analysis"); newHandler == nil {
		t.Error("WithGroup returned nil")
	}
}

func TestResponseWriterWrapper(t *testing.T) {
	recorder := httptest.NewRecorder()

	wrapper := &responseWriterWrapper{ResponseWriter: recorder}

	wrapper.WriteHeader(http.StatusNotFound)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, recorder.Code)
	}

	data := []byte(`{"error":"Not Found"}`)
	n, err := wrapper.Write(data)
	if err != nil {
		t.Errorf("Write failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(data), n)
	}

	// A second WriteHeader must not override the recorded status
	wrapper.WriteHeader(http.StatusInternalServerError)
	if recorder.Code != http.StatusNotFound {
		t.Error("Status should not be changed after first write")
	}

	if wrapper.bytesWritten != len(data) {
		t.Errorf("Expected bytesWritten %d, got %d", len(data), wrapper.bytesWritten)
	}
}

func TestRotatingLoggerExistingFileAtSizeLimit(t *testing.T) {
	tempDir := t.TempDir()

	maxFileSize := int64(1024)
	currentWeek := getWeekKey(time.Now())
	baseFilePath := filepath.Join(tempDir, fmt.Sprintf("app-%s.log", currentWeek))

	if err := os.WriteFile(baseFilePath, []byte(strings.Repeat("x", 2048)), 0666); err != nil {
		t.Fatalf("Failed to create initial log file: %v", err)
	}

	rl := NewRotatingLoggerWithSizeLimit(tempDir, 1, maxFileSize)
	defer func() { _ = rl.Close() }()

	rl.mu.Lock()
	err := rl.doRotate(currentWeek)
	rl.mu.Unlock()
	if err != nil {
		t.Fatalf("Failed to rotate: %v", err)
	}

	// An already-full base file must not be reopened for appending
	if rl.currentFile.Name() == baseFilePath {
		t.Errorf("Expected new numbered file, but got: %s", rl.currentFile.Name())
	}

	if !strings.Contains(rl.currentFile.Name(), "_01.") {
		t.Errorf("Expected filename to contain '_01' suffix, got: %s", rl.currentFile.Name())
	}

	if rl.currentSize.Load() != 0 {
		t.Errorf("Expected currentSize to be 0 for new file, got: %d", rl.currentSize.Load())
	}

	if _, err := rl.Write([]byte("entry")); err != nil {
		t.Fatalf("Failed to write to new file: %v", err)
	}
}

func TestRotatingLoggerExistingFileBelowSizeLimit(t *testing.T) {
	tempDir := t.TempDir()

	maxFileSize := int64(1024)
	currentWeek := getWeekKey(time.Now())
	baseFilePath := filepath.Join(tempDir, fmt.Sprintf("app-%s.log", currentWeek))

	if err := os.WriteFile(baseFilePath, []byte(strings.Repeat("x", 512)), 0666); err != nil {
		t.Fatalf("Failed to create initial log file: %v", err)
	}

	rl := NewRotatingLoggerWithSizeLimit(tempDir, 1, maxFileSize)
	defer func() { _ = rl.Close() }()

	rl.mu.Lock()
	err := rl.doRotate(currentWeek)
	rl.mu.Unlock()
	if err != nil {
		t.Fatalf("Failed to rotate: %v", err)
	}

	if rl.currentFile.Name() != baseFilePath {
		t.Errorf("Expected to reuse existing file, but got: %s", rl.currentFile.Name())
	}

	if rl.currentSize.Load() != 512 {
		t.Errorf("Expected currentSize to be 512 (actual file size), got: %d", rl.currentSize.Load())
	}

	if _, err := rl.Write([]byte("x")); err != nil {
		t.Fatalf("Failed to write to file: %v", err)
	}

	if rl.currentSize.Load() != 513 {
		t.Errorf("Expected currentSize to be 513 after write, got: %d", rl.currentSize.Load())
	}
}
