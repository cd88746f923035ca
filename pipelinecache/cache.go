package pipelinecache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/gogpu/swr/internal/logging"
)

var log = logging.WithPrefix("pipelinecache")

// Stage identifies which of the three generated routine kinds an Entry
// describes.
type Stage uint8

const (
	StageVertex Stage = iota
	StageSetup
	StagePixel
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageSetup:
		return "setup"
	case StagePixel:
		return "pixel"
	default:
		return "unknown"
	}
}

// Entry records that a (stage, state) pair was compiled to a named
// routine in a prior run. StateKey is the hashed state's canonical
// encoding (the same word sequence the owning stage package's
// computeHash reduces), not the routine's machine code: nothing in
// this core persists or reloads compiled instructions, only the
// identity of what was once built.
type Entry struct {
	Stage       Stage
	StateHash   uint32
	StateKey    []byte
	RoutineName string
}

// Export writes header followed by a gob-encoded entries slice. The
// payload is treated as opaque by readers of other versions; only
// Header is a fixed binary layout.
func Export(w io.Writer, header Header, entries []Entry) error {
	buf := header.encode()
	if _, err := w.Write(buf[:]); err != nil {
		return fmt.Errorf("pipelinecache: writing header: %w", err)
	}
	if err := gob.NewEncoder(w).Encode(entries); err != nil {
		return fmt.Errorf("pipelinecache: encoding entries: %w", err)
	}
	log.Debugf("exported %d pipeline cache entries", len(entries))
	return nil
}

// Import reads a blob written by Export, returning the entries found.
// A header mismatch (version, length) is an error; a payload that
// decodes but names a stage/state combination this build no longer
// recognizes is not — entries are informational, and a cache miss on
// import simply falls back to rebuilding from scratch.
func Import(r io.Reader) (Header, []Entry, error) {
	header, err := readHeader(r)
	if err != nil {
		return Header{}, nil, err
	}

	var entries []Entry
	if err := gob.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return Header{}, nil, fmt.Errorf("pipelinecache: decoding entries: %w", err)
	}
	log.Debugf("imported %d pipeline cache entries", len(entries))
	return header, entries, nil
}

// Marshal is a convenience wrapper around Export that returns the
// whole encoded blob as one byte slice in a single call.
func Marshal(header Header, entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Export(&buf, header, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
