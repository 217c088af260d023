package multiplexer

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestManyToOneCollectsAllSenders(t *testing.T) {
	plexer := NewManyToOne(make(chan int, 100))
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if err := plexer.Send(i*10 + j); err != nil {
					t.Error(err)
				}
			}
		}(i)
	}
	wg.Wait()
	plexer.Close()

	seen := map[int]bool{}
	for v := range plexer.Receiver() {
		seen[v] = true
	}
	if len(seen) != 100 {
		t.Errorf("received %d distinct messages, want 100", len(seen))
	}
}

func TestManyToOneClosed(t *testing.T) {
	plexer := NewManyToOne(make(chan string, 1))
	plexer.Close()
	plexer.Close()
	if err := plexer.Send("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after close = %v", err)
	}
	if _, err := plexer.TrySend("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("TrySend after close = %v", err)
	}
}

func TestTrySendFull(t *testing.T) {
	plexer := NewManyToOne(make(chan int, 1))
	if ok, err := plexer.TrySend(1); !ok || err != nil {
		t.Fatalf("first TrySend = %v, %v", ok, err)
	}
	if ok, err := plexer.TrySend(2); ok || err != nil {
		t.Fatalf("TrySend on full receiver = %v, %v", ok, err)
	}
}

func TestCloseReleasesBlockedSender(t *testing.T) {
	plexer := NewManyToOne(make(chan int))
	result := make(chan error)
	go func() {
		result <- plexer.Send(1)
	}()
	time.Sleep(10 * time.Millisecond)
	plexer.Close()
	select {
	case err := <-result:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("blocked Send returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked sender was not released by Close")
	}
}
