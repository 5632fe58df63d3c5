package naming

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCollisionTracker_Claim(t *testing.T) {
	ct := NewCollisionTracker()

	if err := ct.Claim("a_b.lox", "a-b.lax"); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := ct.Claim("a_b.lox", "a-b.lax"); err != nil {
		t.Errorf("re-claim by same source: %v", err)
	}

	err := ct.Claim("a-b.lox", "a-b.lax")
	if !errors.Is(err, ErrTargetClaimed) {
		t.Fatalf("second source: got %v, want ErrTargetClaimed", err)
	}
	if err := ct.Claim("c_d.lox", "c-d.lax"); err != nil {
		t.Errorf("unrelated target: %v", err)
	}
}

func TestCollisionTracker_Concurrent(t *testing.T) {
	ct := NewCollisionTracker()
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if ct.Claim(fmt.Sprintf("src%d", i), "shared") == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("got %d winners for one target, want 1", wins)
	}
}
