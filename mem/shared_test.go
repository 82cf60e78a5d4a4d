package mem

import (
	"errors"
	"sync"
	"testing"
)

func Test_Shared_RefcountMatchesCopies(t *testing.T) {
	b, err := NewShared(32, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := b.Refs(); n != 1 {
		t.Fatalf("fresh buffer refs = %d, want 1", n)
	}

	c1, err := b.Copy()
	if err != nil {
		t.Fatal(err)
	}
	c2, err := c1.Copy()
	if err != nil {
		t.Fatal(err)
	}
	if n := b.Refs(); n != 3 {
		t.Fatalf("refs = %d, want 3", n)
	}

	c1.Release()
	if n := b.Refs(); n != 2 {
		t.Fatalf("refs = %d, want 2", n)
	}
	c2.Release()
	b.Release()
	if n := b.Refs(); n != 0 {
		t.Fatalf("refs = %d, want 0", n)
	}
}

func Test_Shared_LastDropReleasesOnce(t *testing.T) {
	a := NewHeap()
	b, err := NewShared(64, a)
	if err != nil {
		t.Fatal(err)
	}
	c, err := b.Copy()
	if err != nil {
		t.Fatal(err)
	}
	if n := a.Outstanding(); n != 1 {
		t.Fatalf("expected 1 tracked block, got %d", n)
	}

	b.Release()
	if n := a.Outstanding(); n != 1 {
		t.Fatal("backing memory freed while a reference was live")
	}
	c.Release()
	if n := a.Outstanding(); n != 0 {
		t.Fatalf("expected zero leaks after last drop, got %d", n)
	}
	// A second release of either handle is a no-op.
	b.Release()
	c.Release()
}

func Test_Shared_CopyAfterRelease(t *testing.T) {
	b, err := NewShared(16, nil)
	if err != nil {
		t.Fatal(err)
	}
	c, err := b.Copy()
	if err != nil {
		t.Fatal(err)
	}
	b.Release()
	c.Release() // count hits zero here

	if _, err := c.Copy(); !errors.Is(err, ErrBufferReleased) {
		t.Fatalf("expected ErrBufferReleased, got %v", err)
	}
	if _, err := b.Copy(); !errors.Is(err, ErrBufferReleased) {
		t.Fatalf("expected ErrBufferReleased, got %v", err)
	}
}

func Test_Shared_ConcurrentCopyDrop(t *testing.T) {
	a := NewHeap()
	b, err := NewShared(128, a)
	if err != nil {
		t.Fatal(err)
	}

	const workers = 16
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		c, err := b.Copy()
		if err != nil {
			t.Fatal(err)
		}
		wg.Add(1)
		go func(ref *SharedBuffer) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				cp, err := ref.Copy()
				if err != nil {
					t.Error(err)
					return
				}
				cp.Release()
			}
			ref.Release()
		}(c)
	}
	wg.Wait()

	if n := b.Refs(); n != 1 {
		t.Fatalf("refs = %d, want 1 (the original)", n)
	}
	b.Release()
	if n := a.Outstanding(); n != 0 {
		t.Fatalf("expected zero leaks, got %d", n)
	}
}

func Test_Shared_Expand(t *testing.T) {
	b, err := NewShared(8, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	s := NewStream(b)
	if !s.AppendI64(42) {
		t.Fatal("append failed")
	}
	if err := b.Expand(32); err != nil {
		t.Fatal(err)
	}
	if b.Capacity() != 32 {
		t.Fatalf("capacity = %d, want 32", b.Capacity())
	}
	// Contents survive growth, and every reference sees the new storage.
	c, err := b.Copy()
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()
	cs := NewStream(c)
	v, err := cs.GetAsI64()
	if err != nil {
		t.Fatal(err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func Test_Unique_ReleaseIdempotent(t *testing.T) {
	a := NewHeap()
	b, err := NewUnique(16, a)
	if err != nil {
		t.Fatal(err)
	}
	if b.Capacity() != 16 {
		t.Fatalf("capacity = %d", b.Capacity())
	}
	b.Release()
	if n := a.Outstanding(); n != 0 {
		t.Fatalf("expected zero tracked blocks, got %d", n)
	}
	b.Release() // no double free
}

func Test_Unique_Expand(t *testing.T) {
	b, err := NewUnique(4, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Release()

	s := NewStream(b)
	if !s.AppendI32(7) {
		t.Fatal("append failed")
	}
	if err := b.Expand(16); err != nil {
		t.Fatal(err)
	}
	s2 := NewStream(b)
	if v := s2.GetI32(); v != 7 {
		t.Fatalf("got %d, want 7", v)
	}
}

func Test_Unique_AllocationFailure(t *testing.T) {
	if _, err := NewUnique(1024, NewHeapLimit(512)); !errors.Is(err, ErrAllocFailed) {
		t.Fatalf("expected ErrAllocFailed, got %v", err)
	}
}
