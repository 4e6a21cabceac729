package report

import (
	"fmt"
	"sync"
	"testing"
)

func TestIndicesSequential(t *testing.T) {
	l := NewLog()
	for i := 0; i < 5; i++ {
		e := l.Report("cleanup", []string{"cleanup", "--stage", fmt.Sprint(i)}, "exit status 1")
		if e.Index != i {
			t.Fatalf("entry %d got index %d", i, e.Index)
		}
	}
	if l.Len() != 5 {
		t.Fatalf("Len() = %d", l.Len())
	}
}

func TestSubscriberSeesMatchingIndex(t *testing.T) {
	l := NewLog()
	var got []Entry
	l.Subscribe(func(e Entry) { got = append(got, e) })

	l.Report("flatpak", []string{"flatpak", "org.example.App"}, "not found")
	l.Report("brew-install", []string{"brew-install", "jq"}, "network unreachable")

	if len(got) != 2 {
		t.Fatalf("subscriber saw %d entries", len(got))
	}
	for i, e := range got {
		if e.Index != i {
			t.Fatalf("subscriber entry %d carries index %d", i, e.Index)
		}
		stored, ok := l.Get(e.Index)
		if !ok {
			t.Fatalf("Get(%d) missing", e.Index)
		}
		if stored.Message != e.Message {
			t.Fatalf("Get(%d) = %q, subscriber saw %q", e.Index, stored.Message, e.Message)
		}
	}
}

func TestNoReplayForLateSubscriber(t *testing.T) {
	l := NewLog()
	l.Report("early", []string{"early"}, "boom")

	var got []Entry
	l.Subscribe(func(e Entry) { got = append(got, e) })
	if len(got) != 0 {
		t.Fatalf("late subscriber replayed %d entries", len(got))
	}

	l.Report("late", []string{"late"}, "boom")
	if len(got) != 1 || got[0].Index != 1 {
		t.Fatalf("late subscriber saw %+v", got)
	}
}

func TestConcurrentReportsNoGapsNoDuplicates(t *testing.T) {
	const n = 200
	l := NewLog()

	seen := make(map[int]int)
	var seenMu sync.Mutex
	l.Subscribe(func(e Entry) {
		seenMu.Lock()
		seen[e.Index]++
		seenMu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Report("stress", []string{"stress", fmt.Sprint(i)}, "failed")
		}(i)
	}
	wg.Wait()

	if l.Len() != n {
		t.Fatalf("Len() = %d, want %d", l.Len(), n)
	}
	for i := 0; i < n; i++ {
		if seen[i] != 1 {
			t.Fatalf("index %d delivered %d times", i, seen[i])
		}
		if _, ok := l.Get(i); !ok {
			t.Fatalf("Get(%d) missing", i)
		}
	}
}

func TestGetOutOfRange(t *testing.T) {
	l := NewLog()
	if _, ok := l.Get(0); ok {
		t.Fatal("Get(0) on empty log succeeded")
	}
	l.Report("x", nil, "m")
	if _, ok := l.Get(-1); ok {
		t.Fatal("negative index succeeded")
	}
	if _, ok := l.Get(1); ok {
		t.Fatal("past-end index succeeded")
	}
}

func TestAllIsSnapshot(t *testing.T) {
	l := NewLog()
	l.Report("a", []string{"a"}, "m1")
	snap := l.All()
	l.Report("b", []string{"b"}, "m2")
	if len(snap) != 1 {
		t.Fatalf("snapshot grew: %d", len(snap))
	}
	snap[0].Message = "mutated"
	if e, _ := l.Get(0); e.Message != "m1" {
		t.Fatal("snapshot mutation reached the log")
	}
}
