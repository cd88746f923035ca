package reactor

// Op tags the operation a valueDef records. Naming follows the IR
// surface spec.md §4.B enumerates: arithmetic, comparison, bitwise,
// memory, conversion, call, and the structured control-flow markers.
type Op uint8

const (
	OpInvalid Op = iota

	// Arguments and constants.
	OpArg
	OpConstInt
	OpConstFloat
	OpConstBool

	// Arithmetic (applies per-scalar or per-SIMD-lane depending on the
	// value's Type).
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpNeg
	OpMin
	OpMax

	// Comparison — always produces TypeBool for scalars; SIMD compares
	// produce an Int4 mask that callers must reduce explicitly (spec.md
	// §4.B: "SIMD masks require explicit reduction").
	OpCmpEQ
	OpCmpNE
	OpCmpLT
	OpCmpLE
	OpCmpGT
	OpCmpGE

	// Bitwise.
	OpAnd
	OpOr
	OpXor
	OpNot
	OpShl
	OpShr

	// Memory.
	OpLoad
	OpStore
	OpAllocaStack
	OpPointerOffset // byte-offset pointer arithmetic, constant offset
	OpPointerAdd    // byte-offset pointer arithmetic, runtime-computed offset

	// SIMD lane manipulation.
	OpInsertLane
	OpExtractLane
	OpSwizzle
	OpSplat

	// Conversion.
	OpSExt
	OpZExt
	OpTrunc
	OpIntToFloat
	OpFloatToInt

	// Calls to externally resolved native functions.
	OpCall

	// Return sets the routine's result word and ends execution of the
	// current function. Routines with no explicit Return yield zero.
	OpReturn

	// Structured control flow markers. These are emitted into the same
	// linear op stream as ordinary values; a backend walks them to
	// build real branches / loops.
	OpBlockIf
	OpBlockElse
	OpBlockEndIf
	OpBlockWhile
	OpBlockEndWhile
	OpBlockDoUntil // condition evaluated at the end, following the block
	OpBlockEndDo
	OpBlockFor
	OpBlockEndFor

	// Mask-reduction helper: collapses an Int4 comparison mask to a
	// single bool ("any lane true"), the operation spec.md requires
	// before a SIMD mask can feed a structured control-flow condition.
	OpReduceAny
	OpReduceAll
)
