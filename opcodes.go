// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

// Opcode represents a single byte operation code.
type Opcode = byte

// List of opcodes. The encoding is sparse and append-only: values are pinned
// to the wire format and must never be renumbered. Ops named UnkXX decode
// (and re-encode) but have no confirmed semantics.
const (
	OpAdd             Opcode = 0x01
	OpSubtract        Opcode = 0x02
	OpMultiply        Opcode = 0x03
	OpDivide          Opcode = 0x04
	OpMultiply2       Opcode = 0x05
	OpAdd2            Opcode = 0x06
	OpIsZero          Opcode = 0x07
	OpMin             Opcode = 0x08
	OpMax             Opcode = 0x09
	OpLessThan        Opcode = 0x0a
	OpDot             Opcode = 0x0b
	OpMerge1_3        Opcode = 0x0c
	OpMerge2_2        Opcode = 0x0d
	OpMerge3_1        Opcode = 0x0e
	OpCubic           Opcode = 0x0f
	OpLerp            Opcode = 0x10
	OpLerpSaturated   Opcode = 0x11
	OpMultiplyAdd     Opcode = 0x12
	OpClamp           Opcode = 0x13
	OpUnk14           Opcode = 0x14
	OpAbs             Opcode = 0x15
	OpSignum          Opcode = 0x16
	OpFloor           Opcode = 0x17
	OpCeil            Opcode = 0x18
	OpRound           Opcode = 0x19
	OpFrac            Opcode = 0x1a
	OpUnk1b           Opcode = 0x1b
	OpUnk1c           Opcode = 0x1c
	OpNegate          Opcode = 0x1d
	OpVectorRotSin    Opcode = 0x1e
	OpVectorRotCos    Opcode = 0x1f
	OpVectorRotSinCos Opcode = 0x20
	OpPermuteExtendX  Opcode = 0x21
	OpPermute         Opcode = 0x22
	OpSaturate        Opcode = 0x23
	OpUnk24           Opcode = 0x24
	OpUnk25           Opcode = 0x25
	OpUnk26           Opcode = 0x26
	OpTriangle        Opcode = 0x27
	OpJitter          Opcode = 0x28
	OpWander          Opcode = 0x29
	OpRand            Opcode = 0x2a
	OpRandSmooth      Opcode = 0x2b
	OpUnk2c           Opcode = 0x2c
	OpUnk2d           Opcode = 0x2d
	OpTransformVec4   Opcode = 0x2e

	OpPushConstVec4         Opcode = 0x34
	OpLerpConstant          Opcode = 0x35
	OpLerpConstantSaturated Opcode = 0x36
	OpSpline4Const          Opcode = 0x37
	OpSpline8Const          Opcode = 0x38
	OpSpline8ChainConst     Opcode = 0x39
	OpGradient4Const        Opcode = 0x3a
	OpUnk3b                 Opcode = 0x3b

	OpPushExternInputFloat       Opcode = 0x3c
	OpPushExternInputVec4        Opcode = 0x3d
	OpPushExternInputMat4        Opcode = 0x3e
	OpPushExternInputTextureView Opcode = 0x3f
	OpPushExternInputU32         Opcode = 0x40
	OpPushExternInputUav         Opcode = 0x41

	OpUnk42            Opcode = 0x42
	OpPushFromOutput   Opcode = 0x43
	OpPopOutput        Opcode = 0x44
	OpPopOutputMat4    Opcode = 0x45
	OpPushTemp         Opcode = 0x46
	OpPopTemp          Opcode = 0x47
	OpSetShaderTexture Opcode = 0x48
	OpUnk49            Opcode = 0x49
	OpSetShaderSampler Opcode = 0x4a
	OpSetShaderUav     Opcode = 0x4b
	OpUnk4c            Opcode = 0x4c
	OpPushSampler      Opcode = 0x4d

	OpPushObjectChannelVector Opcode = 0x4e
	OpPushGlobalChannelVector Opcode = 0x4f
	OpUnk50                   Opcode = 0x50
	OpUnk51                   Opcode = 0x51
	OpPushTexDimensions       Opcode = 0x52
	OpPushTexTilingParams     Opcode = 0x53
	OpPushTexTileLayerCount   Opcode = 0x54
	OpUnk55                   Opcode = 0x55
	OpUnk56                   Opcode = 0x56
	OpUnk57                   Opcode = 0x57
	OpUnk58                   Opcode = 0x58
)

// OpcodeNames are string representation of opcodes. An empty entry marks an
// opcode byte with no matching operation.
var OpcodeNames = [...]string{
	OpAdd:             "add",
	OpSubtract:        "subtract",
	OpMultiply:        "multiply",
	OpDivide:          "divide",
	OpMultiply2:       "multiply2",
	OpAdd2:            "add2",
	OpIsZero:          "is_zero",
	OpMin:             "min",
	OpMax:             "max",
	OpLessThan:        "less_than",
	OpDot:             "dot",
	OpMerge1_3:        "merge_1_3",
	OpMerge2_2:        "merge_2_2",
	OpMerge3_1:        "merge_3_1",
	OpCubic:           "cubic",
	OpLerp:            "lerp",
	OpLerpSaturated:   "lerp_saturated",
	OpMultiplyAdd:     "multiply_add",
	OpClamp:           "clamp",
	OpUnk14:           "unk14",
	OpAbs:             "abs",
	OpSignum:          "signum",
	OpFloor:           "floor",
	OpCeil:            "ceil",
	OpRound:           "round",
	OpFrac:            "frac",
	OpUnk1b:           "unk1b",
	OpUnk1c:           "unk1c",
	OpNegate:          "negate",
	OpVectorRotSin:    "vector_rotations_sin",
	OpVectorRotCos:    "vector_rotations_cos",
	OpVectorRotSinCos: "vector_rotations_sin_cos",
	OpPermuteExtendX:  "permute_extend_x",
	OpPermute:         "permute",
	OpSaturate:        "saturate",
	OpUnk24:           "unk24",
	OpUnk25:           "unk25",
	OpUnk26:           "unk26",
	OpTriangle:        "triangle",
	OpJitter:          "jitter",
	OpWander:          "wander",
	OpRand:            "rand",
	OpRandSmooth:      "rand_smooth",
	OpUnk2c:           "unk2c",
	OpUnk2d:           "unk2d",
	OpTransformVec4:   "transform_vec4",

	OpPushConstVec4:         "push_const_vec4",
	OpLerpConstant:          "lerp_constant",
	OpLerpConstantSaturated: "lerp_constant_saturated",
	OpSpline4Const:          "spline4_const",
	OpSpline8Const:          "spline8_const",
	OpSpline8ChainConst:     "spline8_chain_const",
	OpGradient4Const:        "gradient4_const",
	OpUnk3b:                 "unk3b",

	OpPushExternInputFloat:       "push_extern_input_float",
	OpPushExternInputVec4:        "push_extern_input_vec4",
	OpPushExternInputMat4:        "push_extern_input_mat4",
	OpPushExternInputTextureView: "push_extern_input_tex",
	OpPushExternInputU32:         "push_extern_input_u32",
	OpPushExternInputUav:         "push_extern_input_uav",

	OpUnk42:            "unk42",
	OpPushFromOutput:   "push_from_output",
	OpPopOutput:        "pop_output",
	OpPopOutputMat4:    "pop_output_mat4",
	OpPushTemp:         "push_temp",
	OpPopTemp:          "pop_temp",
	OpSetShaderTexture: "set_shader_texture",
	OpUnk49:            "unk49",
	OpSetShaderSampler: "set_shader_sampler",
	OpSetShaderUav:     "set_shader_uav",
	OpUnk4c:            "unk4c",
	OpPushSampler:      "push_sampler",

	OpPushObjectChannelVector: "push_object_channel_vector",
	OpPushGlobalChannelVector: "push_global_channel_vector",
	OpUnk50:                   "unk50",
	OpUnk51:                   "unk51",
	OpPushTexDimensions:       "push_tex_dimensions",
	OpPushTexTilingParams:     "push_tex_tiling_params",
	OpPushTexTileLayerCount:   "push_tex_tile_layer_count",
	OpUnk55:                   "unk55",
	OpUnk56:                   "unk56",
	OpUnk57:                   "unk57",
	OpUnk58:                   "unk58",
}

// Operand layouts. Every opcode has exactly one fixed layout; the table below
// drives Decode, Encode and Disassemble so the three can not drift apart.
type opLayout uint8

const (
	// no operands
	layoutNone opLayout = iota
	// one byte: index, slot, element or swizzle fields
	layoutByte
	// two bytes: index plus swizzle fields
	layoutTwoBytes
	// extern identifier byte plus element offset byte
	layoutExtern
	// one byte packing a shader stage (top 3 bits) and slot (low 5 bits)
	layoutStage
	// big-endian u32 channel hash
	layoutHash
)

// opcodeLayouts is the operand layout per opcode.
var opcodeLayouts = [len(OpcodeNames)]opLayout{
	OpPermute:                    layoutByte,
	OpPushConstVec4:              layoutByte,
	OpLerpConstant:               layoutByte,
	OpLerpConstantSaturated:      layoutByte,
	OpSpline4Const:               layoutByte,
	OpSpline8Const:               layoutByte,
	OpSpline8ChainConst:          layoutByte,
	OpGradient4Const:             layoutByte,
	OpUnk3b:                      layoutByte,
	OpPushExternInputFloat:       layoutExtern,
	OpPushExternInputVec4:        layoutExtern,
	OpPushExternInputMat4:        layoutExtern,
	OpPushExternInputTextureView: layoutExtern,
	OpPushExternInputU32:         layoutExtern,
	OpPushExternInputUav:         layoutExtern,
	OpPushFromOutput:             layoutByte,
	OpPopOutput:                  layoutByte,
	OpPopOutputMat4:              layoutByte,
	OpPushTemp:                   layoutByte,
	OpPopTemp:                    layoutByte,
	OpSetShaderTexture:           layoutStage,
	OpUnk49:                      layoutByte,
	OpSetShaderSampler:           layoutStage,
	OpSetShaderUav:               layoutStage,
	OpUnk4c:                      layoutByte,
	OpPushSampler:                layoutByte,
	OpPushObjectChannelVector:    layoutHash,
	OpPushGlobalChannelVector:    layoutByte,
	OpUnk50:                      layoutByte,
	OpPushTexDimensions:          layoutTwoBytes,
	OpPushTexTilingParams:        layoutTwoBytes,
	OpPushTexTileLayerCount:      layoutTwoBytes,
}

// IsValidOpcode reports whether c maps to a known operation.
func IsValidOpcode(c Opcode) bool {
	return int(c) < len(OpcodeNames) && OpcodeNames[c] != ""
}

// swizzleSuffix renders a packed permute operand as ".xyzw" style suffix
// text. The selectors are packed two bits each, first component in the top
// bits.
func swizzleSuffix(fields byte) string {
	const dims = "xyzw"
	return "." +
		string(dims[(fields>>6)&0b11]) +
		string(dims[(fields>>4)&0b11]) +
		string(dims[(fields>>2)&0b11]) +
		string(dims[fields&0b11])
}
