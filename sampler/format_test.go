package sampler_test

import (
	"testing"

	"github.com/gogpu/swr/sampler"
)

func TestLookupKnownFormats(t *testing.T) {
	tests := []struct {
		name           string
		format         sampler.Format
		wantKind       sampler.Kind
		wantChannels   int
		wantBlockBytes int
	}{
		{"r8-unorm", sampler.FormatR8Unorm, sampler.KindUnorm, 1, 1},
		{"r8g8b8a8-unorm", sampler.FormatR8G8B8A8Unorm, sampler.KindUnorm, 4, 4},
		{"r8g8b8a8-sint", sampler.FormatR8G8B8A8Sint, sampler.KindSint, 4, 4},
		{"a2b10g10r10-unorm", sampler.FormatA2B10G10R10Unorm, sampler.KindPackedUnorm1010102, 4, 4},
		{"b10g11r11-ufloat", sampler.FormatB10G11R11Ufloat, sampler.KindPackedUfloat11_11_10, 3, 4},
		{"r16-sfloat", sampler.FormatR16Sfloat, sampler.KindSfloat, 1, 2},
		{"r16g16b16a16-sfloat", sampler.FormatR16G16B16A16Sfloat, sampler.KindSfloat, 4, 8},
		{"r32g32b32a32-sfloat", sampler.FormatR32G32B32A32Sfloat, sampler.KindSfloat, 4, 16},
		{"d16-unorm", sampler.FormatD16Unorm, sampler.KindDepth, 1, 2},
		{"d24-unorm-s8-uint", sampler.FormatD24UnormS8Uint, sampler.KindDepthStencil, 2, 4},
		{"d32-sfloat-s8-uint", sampler.FormatD32SfloatS8Uint, sampler.KindDepthStencil, 2, 8},
		{"s8-uint", sampler.FormatS8Uint, sampler.KindStencil, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := sampler.Lookup(tt.format)
			if !ok {
				t.Fatalf("Lookup(%v) not found", tt.format)
			}
			if info.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", info.Kind, tt.wantKind)
			}
			if info.Channels != tt.wantChannels {
				t.Errorf("Channels = %d, want %d", info.Channels, tt.wantChannels)
			}
			if info.BlockSizeBytes != tt.wantBlockBytes {
				t.Errorf("BlockSizeBytes = %d, want %d", info.BlockSizeBytes, tt.wantBlockBytes)
			}
		})
	}
}

func TestLookupUndefinedFormatFails(t *testing.T) {
	if _, ok := sampler.Lookup(sampler.FormatUndefined); ok {
		t.Fatal("Lookup(FormatUndefined) should not be found")
	}
	if _, ok := sampler.Lookup(sampler.Format(9999)); ok {
		t.Fatal("Lookup of an unassigned format value should not be found")
	}
}

func TestKindIsDepthOrStencil(t *testing.T) {
	tests := []struct {
		kind sampler.Kind
		want bool
	}{
		{sampler.KindDepth, true},
		{sampler.KindDepthStencil, true},
		{sampler.KindStencil, true},
		{sampler.KindUnorm, false},
		{sampler.KindSfloat, false},
	}
	for _, tt := range tests {
		if got := tt.kind.IsDepthOrStencil(); got != tt.want {
			t.Errorf("Kind(%v).IsDepthOrStencil() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
