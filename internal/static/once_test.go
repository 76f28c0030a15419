package static

import (
	"errors"
	"sync"
	"testing"
)

func TestOnce(t *testing.T) {
	calls := 0
	once := CreateOnce(func() (int, error) {
		calls++
		return calls, nil
	})

	value, err := once()
	if err != nil {
		t.Error(err)
	}
	if value != 1 {
		t.Errorf("Expected 1, got %d", value)
	}

	value, err = once()
	if err != nil {
		t.Error(err)
	}
	if value != 1 {
		t.Errorf("Should not have initialized twice, got %d", value)
	}
}

func TestOnceKeepsError(t *testing.T) {
	errBoom := errors.New("boom")
	once := CreateOnce(func() (string, error) {
		return "", errBoom
	})

	for i := 0; i < 2; i++ {
		if _, err := once(); !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
	}
}

func TestOnceConcurrent(t *testing.T) {
	var mux sync.Mutex
	calls := 0
	once := CreateOnce(func() (int, error) {
		mux.Lock()
		defer mux.Unlock()
		calls++
		return 42, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			once()
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}
