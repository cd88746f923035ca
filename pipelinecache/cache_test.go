package pipelinecache_test

import (
	"bytes"
	"testing"

	"github.com/gogpu/swr/pipelinecache"
)

func TestExportImportRoundTripsEntries(t *testing.T) {
	header := pipelinecache.NewHeader(0x10DE, 0x1234)
	entries := []pipelinecache.Entry{
		{Stage: pipelinecache.StageVertex, StateHash: 1, StateKey: []byte{1, 2, 3}, RoutineName: "vertex_00000001"},
		{Stage: pipelinecache.StagePixel, StateHash: 2, StateKey: []byte{4, 5}, RoutineName: "pixel_00000002"},
	}

	var buf bytes.Buffer
	if err := pipelinecache.Export(&buf, header, entries); err != nil {
		t.Fatalf("Export: %v", err)
	}

	gotHeader, gotEntries, err := pipelinecache.Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if gotHeader != header {
		t.Fatalf("header = %+v, want %+v", gotHeader, header)
	}
	if len(gotEntries) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(gotEntries), len(entries))
	}
	for i, e := range entries {
		if gotEntries[i] != e {
			t.Errorf("entry %d = %+v, want %+v", i, gotEntries[i], e)
		}
	}
}

func TestImportRejectsWrongVersion(t *testing.T) {
	header := pipelinecache.NewHeader(1, 2)
	header.Version = 99

	blob, err := pipelinecache.Marshal(header, nil)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if _, _, err := pipelinecache.Import(bytes.NewReader(blob)); err == nil {
		t.Fatal("expected an error importing a mismatched header version, got nil")
	}
}

func TestNewHeaderIsDeterministicPerDeviceIdentity(t *testing.T) {
	a := pipelinecache.NewHeader(0x10DE, 0x1234)
	b := pipelinecache.NewHeader(0x10DE, 0x1234)
	if a.UUID != b.UUID {
		t.Fatal("NewHeader produced different UUIDs for the same vendor/device identity")
	}

	c := pipelinecache.NewHeader(0x10DE, 0x5678)
	if a.UUID == c.UUID {
		t.Fatal("NewHeader produced the same UUID for different device identities")
	}
}

func TestMarshalEmptyEntries(t *testing.T) {
	header := pipelinecache.NewHeader(0, 0)
	blob, err := pipelinecache.Marshal(header, nil)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	_, entries, err := pipelinecache.Import(bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries from an empty export, want 0", len(entries))
	}
}
