package data

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/medinsight/medinsight-api/analysis/entities"
)

func forecastResult(n int) *entities.AnalysisResult {
	fc := &entities.Forecast{Predictions: []entities.Prediction{}}
	for i := 0; i < n; i++ {
		fc.Predictions = append(fc.Predictions, entities.Prediction{
			Disease:     fmt.Sprintf("Condition %d", i+1),
			Probability: 1.0 / float64(n),
		})
	}
	return &entities.AnalysisResult{Mode: "predict_symptoms", Forecast: fc}
}

func TestSetAndGetResult(t *testing.T) {
	sc := NewSessionContainer()

	if _, ok := sc.GetResult("s1"); ok {
		t.Error("Expected no result for fresh session")
	}

	result := forecastResult(2)
	sc.SetResult("s1", result)

	got, ok := sc.GetResult("s1")
	if !ok {
		t.Fatal("Expected result after SetResult")
	}
	if got != result {
		t.Error("Expected the stored result back")
	}
	if _, ok := sc.GetResult("s2"); ok {
		t.Error("Expected sessions to be isolated")
	}
	if sc.SessionCount() != 1 {
		t.Errorf("Expected 1 session, got %d", sc.SessionCount())
	}
}

func TestSetResultPurgesMatchFlags(t *testing.T) {
	sc := NewSessionContainer()
	sc.SetResult("s1", forecastResult(3))

	if err := sc.SetMatchFlag("s1", 2, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flags := sc.MatchFlags("s1"); !flags[2] {
		t.Fatal("Expected flag at position 2")
	}

	// A new result replaces the old one wholesale, flags included
	sc.SetResult("s1", forecastResult(3))
	if flags := sc.MatchFlags("s1"); len(flags) != 0 {
		t.Errorf("Expected flags purged on new result, got %v", flags)
	}
}

func TestSetMatchFlagValidation(t *testing.T) {
	sc := NewSessionContainer()

	if err := sc.SetMatchFlag("missing", 1, true); err == nil {
		t.Error("Expected error for unknown session")
	}

	sc.SetResult("rx", &entities.AnalysisResult{Mode: "extract_prescription", Extraction: &entities.Extraction{}})
	if err := sc.SetMatchFlag("rx", 1, true); err == nil {
		t.Error("Expected error when the session holds no forecast")
	}

	sc.SetResult("s1", forecastResult(3))
	for _, position := range []int{0, -1, 4} {
		if err := sc.SetMatchFlag("s1", position, true); err == nil {
			t.Errorf("Expected error for out-of-range position %d", position)
		}
	}
}

func TestSetMatchFlagToggle(t *testing.T) {
	sc := NewSessionContainer()
	sc.SetResult("s1", forecastResult(2))

	if err := sc.SetMatchFlag("s1", 1, true); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := sc.SetMatchFlag("s1", 1, false); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if flags := sc.MatchFlags("s1"); len(flags) != 0 {
		t.Errorf("Expected flag cleared, got %v", flags)
	}
}

func TestMatchFlagsReturnsCopy(t *testing.T) {
	sc := NewSessionContainer()
	sc.SetResult("s1", forecastResult(2))
	_ = sc.SetMatchFlag("s1", 1, true)

	flags := sc.MatchFlags("s1")
	flags[2] = true

	if got := sc.MatchFlags("s1"); len(got) != 1 {
		t.Errorf("Expected stored flags unaffected by caller mutation, got %v", got)
	}
}

func TestClear(t *testing.T) {
	sc := NewSessionContainer()
	sc.SetResult("s1", forecastResult(1))
	sc.SetResult("s2", forecastResult(1))

	sc.Clear("s1")

	if _, ok := sc.GetResult("s1"); ok {
		t.Error("Expected s1 cleared")
	}
	if _, ok := sc.GetResult("s2"); !ok {
		t.Error("Expected s2 untouched")
	}
	// Clearing an unknown session is a no-op
	sc.Clear("missing")
	if sc.SessionCount() != 1 {
		t.Errorf("Expected 1 session, got %d", sc.SessionCount())
	}
}

func TestPurgeIdle(t *testing.T) {
	sc := NewSessionContainer()
	sc.SetResult("old", forecastResult(1))
	sc.sessions["old"].updatedAt = time.Now().Add(-2 * time.Hour)
	sc.SetResult("fresh", forecastResult(1))

	removed := sc.PurgeIdle(time.Hour)

	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if _, ok := sc.GetResult("old"); ok {
		t.Error("Expected idle session purged")
	}
	if _, ok := sc.GetResult("fresh"); !ok {
		t.Error("Expected fresh session kept")
	}

	if removed = sc.PurgeIdle(time.Hour); removed != 0 {
		t.Errorf("Expected nothing left to purge, got %d", removed)
	}
}

func TestLastActivity(t *testing.T) {
	sc := NewSessionContainer()

	if !sc.LastActivity().IsZero() {
		t.Error("Expected zero last activity on a fresh container")
	}

	before := time.Now()
	sc.SetResult("s1", forecastResult(1))

	if sc.LastActivity().Before(before) {
		t.Error("Expected last activity updated by SetResult")
	}
}

func TestConcurrentAccess(t *testing.T) {
	sc := NewSessionContainer()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", n%5)
			sc.SetResult(id, forecastResult(3))
			_ = sc.SetMatchFlag(id, 1, true)
			sc.GetResult(id)
			sc.MatchFlags(id)
			sc.SessionCount()
		}(i)
	}
	wg.Wait()

	if sc.SessionCount() != 5 {
		t.Errorf("Expected 5 sessions, got %d", sc.SessionCount())
	}
}
