package sampler_test

import (
	"testing"

	"github.com/gogpu/swr/sampler"
)

func TestSelectFilterGatherAndFetchArePoint(t *testing.T) {
	for _, method := range []sampler.Method{sampler.MethodGather, sampler.MethodFetch} {
		d := sampler.SamplerDesc{Method: method, MinFilter: sampler.FilterLinear, MagFilter: sampler.FilterLinear}
		min, mag := sampler.SelectFilter(d)
		if min != sampler.FilterPoint || mag != sampler.FilterPoint {
			t.Errorf("method %v: SelectFilter = (%v, %v), want (Point, Point)", method, min, mag)
		}
	}
}

func TestSelectFilterAnisotropicEligibility(t *testing.T) {
	tests := []struct {
		name string
		d    sampler.SamplerDesc
		want sampler.FilterMode
	}{
		{
			name: "2d-anisotropic-requested",
			d:    sampler.SamplerDesc{Method: sampler.MethodSample, View: sampler.View2D, AnisotropyRequested: true},
			want: sampler.FilterAnisotropic,
		},
		{
			name: "2d-array-anisotropic-requested",
			d:    sampler.SamplerDesc{Method: sampler.MethodSample, View: sampler.View2DArray, AnisotropyRequested: true},
			want: sampler.FilterAnisotropic,
		},
		{
			name: "cube-anisotropic-requested-ineligible",
			d:    sampler.SamplerDesc{Method: sampler.MethodSample, View: sampler.ViewCube, AnisotropyRequested: true, MinFilter: sampler.FilterLinear, MagFilter: sampler.FilterLinear},
			want: sampler.FilterLinear,
		},
		{
			name: "explicit-lod-ineligible",
			d:    sampler.SamplerDesc{Method: sampler.MethodSampleExplicitLOD, View: sampler.View2D, AnisotropyRequested: true, MinFilter: sampler.FilterPoint, MagFilter: sampler.FilterPoint},
			want: sampler.FilterPoint,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, mag := sampler.SelectFilter(tt.d)
			if min != tt.want || mag != tt.want {
				t.Errorf("SelectFilter = (%v, %v), want (%v, %v)", min, mag, tt.want, tt.want)
			}
		})
	}
}

func TestSelectMipFilterYCbCrElidesMipSelection(t *testing.T) {
	d := sampler.SamplerDesc{View: sampler.ViewYCbCr, MipmapMode: sampler.MipFilterLinear}
	mode, force := sampler.SelectMipFilter(d)
	if mode != sampler.MipFilterNone || force {
		t.Fatalf("SelectMipFilter(YCbCr) = (%v, %v), want (MipFilterNone, false)", mode, force)
	}
}

func TestSelectMipFilterForcesLOD0ForSingleMipLevel(t *testing.T) {
	d := sampler.SamplerDesc{
		Method:         sampler.MethodSample,
		View:           sampler.View2D,
		MinFilter:      sampler.FilterLinear,
		MagFilter:      sampler.FilterLinear,
		MipmapMode:     sampler.MipFilterNone,
		SingleMipLevel: true,
	}
	_, force := sampler.SelectMipFilter(d)
	if !force {
		t.Fatal("expected forceLOD0 = true for a single-mip-level, LOD-independent, non-explicit-LOD sampler")
	}
}

func TestSelectMipFilterDoesNotForceLOD0WhenAnisotropic(t *testing.T) {
	d := sampler.SamplerDesc{
		Method:              sampler.MethodSample,
		View:                sampler.View2D,
		AnisotropyRequested: true,
		MipmapMode:          sampler.MipFilterNone,
		SingleMipLevel:      true,
	}
	_, force := sampler.SelectMipFilter(d)
	if force {
		t.Fatal("anisotropic filtering is not LOD-independent; forceLOD0 should be false")
	}
}

func TestSelectMipFilterDoesNotForceLOD0ForExplicitLOD(t *testing.T) {
	d := sampler.SamplerDesc{
		Method:         sampler.MethodSampleExplicitLOD,
		View:           sampler.View2D,
		MinFilter:      sampler.FilterPoint,
		MagFilter:      sampler.FilterPoint,
		MipmapMode:     sampler.MipFilterNone,
		SingleMipLevel: true,
	}
	_, force := sampler.SelectMipFilter(d)
	if force {
		t.Fatal("explicit-LOD sampling already names its LOD; forceLOD0 should be false")
	}
}

func TestGatherFootprintIsFixed2x2(t *testing.T) {
	want := [4][2]int32{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	if got := sampler.GatherFootprint(); got != want {
		t.Fatalf("GatherFootprint() = %v, want %v", got, want)
	}
}
