package orderlock

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := New()
	const iterations = 500
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				km.Lock("PD1")
				counter++
				km.Unlock("PD1")
			}
		}()
	}
	wg.Wait()

	if counter != 4*iterations {
		t.Fatalf("expected %d increments, got %d", 4*iterations, counter)
	}
	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Fatalf("expected lock table to be drained, got %d entries", len(km.locks))
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := New()
	km.Lock("PD1")

	done := make(chan struct{})
	go func() {
		km.Lock("PD2")
		km.Unlock("PD2")
		close(done)
	}()

	<-done // a different order must not block
	km.Unlock("PD1")
}

func TestKeyedMutexUnlockUnheldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unlock of unheld key")
		}
	}()
	New().Unlock("PD1")
}
