package setup

import (
	"math"

	"github.com/gogpu/swr/reactor/backend/asm"
)

const fnNativeSetup = "setup.nativeSetup"

// RegisterRuntimeHelpers wires nativeSetup into the asm interpreter
// backend. Must run once before any setup-built routine is emitted.
func RegisterRuntimeHelpers() {
	asm.Register(fnNativeSetup, func(args []uint64) uint64 {
		triPtr := uintptr(args[0])
		outPtr := uintptr(args[1])
		drawDataPtr := uintptr(args[2])
		varyingCount := int32(args[3])
		cull := CullMode(uint32(args[4]))
		front := FrontFace(uint32(args[5]))
		depthBiasConstant := math.Float32frombits(uint32(args[6]))
		depthBiasSlope := math.Float32frombits(uint32(args[7]))
		depthClipEnable := args[8] != 0

		kept := nativeSetup(triPtr, outPtr, drawDataPtr, varyingCount, cull, front, depthBiasConstant, depthBiasSlope, depthClipEnable)
		return uint64(uint32(kept))
	})
}
