package id

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	if id1.String() == id2.String() {
		t.Error("Generated IDs should be unique")
	}
}

func TestGenerateString(t *testing.T) {
	id := NewGenerator().GenerateString()

	if len(id) != 26 {
		t.Errorf("ULID should be 26 characters, got %d", len(id))
	}
}

func TestTypedIDGeneration(t *testing.T) {
	tests := []struct {
		id     string
		prefix string
	}{
		{NewScanID().String(), "scan_"},
		{NewFixID().String(), "fix_"},
		{NewBatchID().String(), "batch_"},
	}

	for _, tt := range tests {
		if !strings.HasPrefix(tt.id, tt.prefix) {
			t.Errorf("ID should start with %q, got: %s", tt.prefix, tt.id)
		}
		if !IsValid(strings.TrimPrefix(tt.id, tt.prefix)) {
			t.Errorf("ULID part should be valid: %s", tt.id)
		}
	}
}

func TestParsePrefixed(t *testing.T) {
	scan := NewScanID()

	if _, err := Parse(scan.String()); err != nil {
		t.Fatalf("Parse failed for %s: %v", scan, err)
	}

	ts, err := Timestamp(scan.String())
	if err != nil {
		t.Fatalf("Timestamp failed: %v", err)
	}
	if time.Since(ts) > time.Minute {
		t.Errorf("Timestamp too old: %v", ts)
	}

	if _, err := Parse("scan_not-a-ulid"); err == nil {
		t.Error("Parse should reject invalid ULIDs")
	}
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	const workers, perWorker = 8, 100

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := gen.GenerateString()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("Expected %d unique IDs, got %d", workers*perWorker, len(seen))
	}
}
