package sampler_test

import (
	"testing"

	"github.com/gogpu/swr/reactor"
	"github.com/gogpu/swr/reactor/backend/asm"
	"github.com/gogpu/swr/sampler"
)

// buildCodecRoundTrip emits a routine with ABI (src*, dst*) that reads
// one texel of format through sampler.Unpack and writes it straight
// back out through sampler.Pack, so a byte-for-byte comparison of src
// and dst exercises both halves of the codec together.
func buildCodecRoundTrip(t *testing.T, format sampler.Format) *reactor.Routine {
	t.Helper()
	b, args := reactor.Begin(reactor.TypePointer, reactor.TypePointer)
	val, err := sampler.Unpack(b, format, args[0])
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if err := sampler.Pack(b, format, args[1], val); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	b.Return(b.ConstInt(0))
	r, err := b.Emit("codecRoundTrip", asm.Backend{}, alwaysResolves)
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	t.Cleanup(func() { r.Release() })
	return r
}

func runRoundTrip(t *testing.T, format sampler.Format, src []byte, overreadSlack int) []byte {
	t.Helper()
	sampler.RegisterRuntimeHelpers()
	padded := append(append([]byte{}, src...), make([]byte, overreadSlack)...)
	dst := make([]byte, len(src)+overreadSlack)
	r := buildCodecRoundTrip(t, format)
	r.Call([]uint64{uint64(ptrOf(padded)), uint64(ptrOf(dst))})
	return dst[:len(src)]
}

func TestCodecRoundTripR8Sint(t *testing.T) {
	src := []byte{0xFB} // -5
	got := runRoundTrip(t, sampler.FormatR8Sint, src, 4)
	if got[0] != src[0] {
		t.Fatalf("round trip = %#x, want %#x", got[0], src[0])
	}
}

func TestCodecRoundTripR8G8B8A8Sint(t *testing.T) {
	src := []byte{0x7F, 0x80, 0x00, 0xFF} // 127, -128, 0, -1
	// +3 slack: unpacking channel 3 (the last byte) deliberately
	// over-reads a native 4-byte word from that channel's own offset.
	got := runRoundTrip(t, sampler.FormatR8G8B8A8Sint, src, 3)
	for i := range src {
		if got[i] != src[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], src[i])
		}
	}
}

func TestCodecRoundTripR8G8B8A8Unorm(t *testing.T) {
	src := []byte{0, 64, 200, 255}
	// +3 slack: same last-channel native-word over-read as the Sint case.
	got := runRoundTrip(t, sampler.FormatR8G8B8A8Unorm, src, 3)
	for i := range src {
		// Unorm round trips through a /255 then *255+0.5 rounding; off
		// by one from quantization is acceptable, exact match is not
		// required.
		diff := int(got[i]) - int(src[i])
		if diff > 1 || diff < -1 {
			t.Errorf("byte %d = %d, want ~%d", i, got[i], src[i])
		}
	}
}

func TestCodecRoundTripS8Uint(t *testing.T) {
	src := []byte{200}
	got := runRoundTrip(t, sampler.FormatS8Uint, src, 4)
	if got[0] != src[0] {
		t.Fatalf("round trip = %d, want %d", got[0], src[0])
	}
}

func TestCodecRoundTripD24UnormS8Uint(t *testing.T) {
	// depth ~0.5 (0x7FFFFF out of 0xFFFFFF), stencil = 77, packed LE.
	packed := uint32(0x7FFFFF) | uint32(77)<<24
	src := []byte{byte(packed), byte(packed >> 8), byte(packed >> 16), byte(packed >> 24)}
	got := runRoundTrip(t, sampler.FormatD24UnormS8Uint, src, 0)
	gotPacked := uint32(got[0]) | uint32(got[1])<<8 | uint32(got[2])<<16 | uint32(got[3])<<24
	gotStencil := (gotPacked >> 24) & 0xFF
	if gotStencil != 77 {
		t.Errorf("stencil = %d, want 77", gotStencil)
	}
	gotDepth := gotPacked & 0x00FFFFFF
	if diff := int(gotDepth) - 0x7FFFFF; diff > 2 || diff < -2 {
		t.Errorf("depth bits = %#x, want ~%#x", gotDepth, 0x7FFFFF)
	}
}

func TestCodecRoundTripD32SfloatS8Uint(t *testing.T) {
	// depth = 0.25 (0x3E800000), stencil byte = 9, +3 bytes slack after
	// the packed word for the stencil byte's native-word over-read.
	src := []byte{0x00, 0x00, 0x80, 0x3E, 9, 0, 0, 0}
	got := runRoundTrip(t, sampler.FormatD32SfloatS8Uint, src, 0)
	for i := 0; i < 4; i++ {
		if got[i] != src[i] {
			t.Errorf("depth byte %d = %#x, want %#x", i, got[i], src[i])
		}
	}
	if got[4] != 9 {
		t.Errorf("stencil byte = %d, want 9", got[4])
	}
}

func TestUnpackUnsupportedFormatFails(t *testing.T) {
	b, args := reactor.Begin(reactor.TypePointer)
	if _, err := sampler.Unpack(b, sampler.FormatUndefined, args[0]); err == nil {
		t.Fatal("Unpack(FormatUndefined) should fail")
	}
}
