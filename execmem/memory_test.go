package execmem

import "testing"

func TestAllocateRoundsToPageSize(t *testing.T) {
	b, err := Allocate(1)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Deallocate()

	if b.Len() < PageSize() {
		t.Fatalf("Len() = %d, want >= page size %d", b.Len(), PageSize())
	}
	if b.Len()%PageSize() != 0 {
		t.Fatalf("Len() = %d is not a multiple of page size %d", b.Len(), PageSize())
	}
}

func TestWriteThenMarkExecutable(t *testing.T) {
	b, err := Allocate(64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Deallocate()

	copy(b.Bytes(), []byte{0x90, 0x90, 0xC3}) // nop; nop; ret — written while writable.

	if err := b.MarkExecutable(); err != nil {
		t.Fatalf("MarkExecutable: %v", err)
	}
	if !b.Executable() {
		t.Fatal("Executable() = false after MarkExecutable")
	}
}

func TestMarkExecutableIdempotent(t *testing.T) {
	b, err := Allocate(64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Deallocate()

	if err := b.MarkExecutable(); err != nil {
		t.Fatalf("first MarkExecutable: %v", err)
	}
	if err := b.MarkExecutable(); err != nil {
		t.Fatalf("second MarkExecutable: %v", err)
	}
}

func TestRefCountedBlockReleasesOnce(t *testing.T) {
	b, err := Allocate(32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	rc := NewRefCounted(b)
	rc.Retain()
	rc.Retain()

	freed, err := rc.Release()
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if freed {
		t.Fatal("Release freed the block with references outstanding")
	}

	freed, err = rc.Release()
	if err != nil || freed {
		t.Fatalf("Release (2nd) = (%v, %v), want (false, nil)", freed, err)
	}

	freed, err = rc.Release()
	if err != nil {
		t.Fatalf("final Release: %v", err)
	}
	if !freed {
		t.Fatal("final Release did not report freeing the block")
	}
}
