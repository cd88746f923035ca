// Package pipelinecache implements the on-disk export/import format a
// host uses to persist compiled routine identities across process
// runs, following original_source/src/Vulkan/VkPipelineCache.cpp: a
// fixed binary header identifying the producing device, followed by an
// opaque payload. This core never re-JITs a routine from an imported
// payload — import only tells a caller which (state, routine) pairs a
// prior run already built, so the corresponding routine caches can skip
// straight to treating those keys as known instead of discovering them
// cold. An imported entry with no matching live routine is simply left
// for the routine cache to rebuild on first use.
package pipelinecache

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// HeaderLength is the fixed byte size of Header, matching
// VkPipelineCacheHeaderVersionOne's CacheHeader layout.
const HeaderLength = 4 + 4 + 4 + 4 + 16

// Version is the only header version this core writes or accepts.
const Version uint32 = 1

// Header identifies the producing build, so a cache blob built by one
// binary version is never fed to a mismatched one.
type Header struct {
	HeaderLength uint32
	Version      uint32
	VendorID     uint32 // caller-supplied: out of core scope per spec.md §1
	DeviceID     uint32 // caller-supplied: out of core scope per spec.md §1
	UUID         [16]byte
}

// NewHeader builds a Header for the running build, deriving UUID from
// a deterministic namespace UUID over vendorID/deviceID so the same
// device identity always yields the same cache UUID.
func NewHeader(vendorID, deviceID uint32) Header {
	seed := fmt.Sprintf("swr-pipeline-cache-%08x-%08x", vendorID, deviceID)
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
	h := Header{
		HeaderLength: HeaderLength,
		Version:      Version,
		VendorID:     vendorID,
		DeviceID:     deviceID,
	}
	copy(h.UUID[:], id[:])
	return h
}

func (h Header) encode() [HeaderLength]byte {
	var buf [HeaderLength]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.HeaderLength)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint32(buf[8:12], h.VendorID)
	binary.LittleEndian.PutUint32(buf[12:16], h.DeviceID)
	copy(buf[16:32], h.UUID[:])
	return buf
}

func decodeHeader(buf [HeaderLength]byte) Header {
	var h Header
	h.HeaderLength = binary.LittleEndian.Uint32(buf[0:4])
	h.Version = binary.LittleEndian.Uint32(buf[4:8])
	h.VendorID = binary.LittleEndian.Uint32(buf[8:12])
	h.DeviceID = binary.LittleEndian.Uint32(buf[12:16])
	copy(h.UUID[:], buf[16:32])
	return h
}

// readHeader reads and validates the fixed header, returning an error
// that identifies which field rejected the blob.
func readHeader(r io.Reader) (Header, error) {
	var buf [HeaderLength]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, fmt.Errorf("pipelinecache: reading header: %w", err)
	}
	h := decodeHeader(buf)
	if h.HeaderLength != HeaderLength {
		return Header{}, fmt.Errorf("pipelinecache: header length %d, want %d", h.HeaderLength, HeaderLength)
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("pipelinecache: header version %d, want %d", h.Version, Version)
	}
	return h, nil
}
