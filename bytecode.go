// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Op is a single decoded operation: an opcode plus its fixed operands. Which
// fields are meaningful is determined by the opcode's layout.
type Op struct {
	Code Opcode

	// A holds the first operand byte: a constant/temp/sampler index, output
	// element, slot or packed swizzle selectors depending on the opcode.
	A byte
	// B holds the second operand byte (swizzle selectors for the
	// push_tex_* family).
	B byte
	// Extern identifies the source block for extern load ops.
	Extern Extern
	// Stage and Slot are the decoded halves of a binding op's operand byte.
	Stage ShaderStage
	Slot  byte
	// Hash is the object channel hash for push_object_channel_vector.
	Hash uint32
}

// Name returns the mnemonic of the operation.
func (op Op) Name() string {
	if IsValidOpcode(op.Code) {
		return OpcodeNames[op.Code]
	}
	return fmt.Sprintf("opcode(0x%02x)", op.Code)
}

// Program is an immutable decoded operation sequence together with the
// constants table supplied by the owning material or scope record. Programs
// contain no control flow; execution cost is linear in len(Ops).
type Program struct {
	Ops       []Op
	Constants []Vec4
}

// Decode decodes a raw byte buffer into an ordered operation sequence,
// reading one opcode byte and its fixed operand layout at a time until the
// buffer is exhausted. Multi-byte operands are read with the given byte
// order, except object channel hashes which are big-endian on the wire
// regardless of stream order. An unknown opcode byte or a truncated operand
// fails the whole decode; there is no partial result.
func Decode(data []byte, order binary.ByteOrder) ([]Op, error) {
	var ops []Op
	pos := 0
	for pos < len(data) {
		start := pos
		code := data[pos]
		pos++
		if !IsValidOpcode(code) {
			return nil, ErrUnknownOpcode.NewError(
				fmt.Sprintf("0x%02x at offset %d", code, start))
		}

		op := Op{Code: code}
		need := operandSize(code)
		if pos+need > len(data) {
			return nil, ErrTruncatedOperand.NewError(
				fmt.Sprintf("%s at offset %d needs %d operand byte(s), %d left",
					op.Name(), start, need, len(data)-pos))
		}

		switch opcodeLayouts[code] {
		case layoutNone:
		case layoutByte:
			op.A = data[pos]
		case layoutTwoBytes:
			op.A = data[pos]
			op.B = data[pos+1]
		case layoutExtern:
			ext := Extern(data[pos])
			if !ext.IsValid() {
				return nil, ErrInvalidExtern.NewError(
					fmt.Sprintf("%d in %s at offset %d", data[pos], op.Name(), start))
			}
			op.Extern = ext
			op.A = data[pos+1]
		case layoutStage:
			stage, err := StageFromOperand(data[pos])
			if err != nil {
				return nil, ErrInvalidStage.NewError(
					fmt.Sprintf("%s at offset %d: %v", op.Name(), start, err))
			}
			op.Stage = stage
			op.Slot = data[pos] & 0x1f
		case layoutHash:
			// Channel hashes are serialized big-endian independent of the
			// stream's byte order.
			op.Hash = binary.BigEndian.Uint32(data[pos : pos+4])
		}
		pos += need

		ops = append(ops, op)
	}
	return ops, nil
}

// Encode re-serializes an operation sequence to its wire form. It is the
// inverse of Decode: Decode(Encode(ops)) yields ops again.
func Encode(ops []Op) []byte {
	var out []byte
	for _, op := range ops {
		out = append(out, op.Code)
		switch opcodeLayouts[op.Code] {
		case layoutNone:
		case layoutByte:
			out = append(out, op.A)
		case layoutTwoBytes:
			out = append(out, op.A, op.B)
		case layoutExtern:
			out = append(out, byte(op.Extern), op.A)
		case layoutStage:
			out = append(out, byte(op.Stage)<<5|op.Slot&0x1f)
		case layoutHash:
			var h [4]byte
			binary.BigEndian.PutUint32(h[:], op.Hash)
			out = append(out, h[:]...)
		}
	}
	return out
}

// operandSize returns the number of operand bytes following the opcode byte.
func operandSize(code Opcode) int {
	switch opcodeLayouts[code] {
	case layoutByte, layoutStage:
		return 1
	case layoutTwoBytes, layoutExtern:
		return 2
	case layoutHash:
		return 4
	}
	return 0
}

// Disassemble formats the operation to assembly-like output. When a constants
// table is supplied, constant references are expanded inline.
func (op Op) Disassemble(constants []Vec4) string {
	name := op.Name()
	switch op.Code {
	case OpPermute:
		return fmt.Sprintf("permute(%s)", swizzleSuffix(op.A))
	case OpPushConstVec4, OpUnk3b:
		if c, ok := constantAt(constants, int(op.A)); ok {
			return fmt.Sprintf("%s(%d) // %v", name, op.A, c)
		}
		return fmt.Sprintf("%s(%d)", name, op.A)
	case OpLerpConstant, OpLerpConstantSaturated:
		if a, ok := constantAt(constants, int(op.A)); ok {
			if b, ok := constantAt(constants, int(op.A)+1); ok {
				return fmt.Sprintf("%s(%d, %d) // a=%v b=%v", name, op.A, op.A+1, a, b)
			}
		}
		return fmt.Sprintf("%s(%d, %d)", name, op.A, op.A+1)
	case OpSpline4Const, OpSpline8Const, OpSpline8ChainConst, OpGradient4Const:
		return fmt.Sprintf("%s constant_start=%d", name, op.A)
	case OpPushExternInputFloat, OpPushExternInputU32:
		return fmt.Sprintf("%s (%s+0x%X)", name, op.Extern, uint32(op.A)*4)
	case OpPushExternInputVec4, OpPushExternInputMat4:
		return fmt.Sprintf("%s (%s+0x%X)", name, op.Extern, uint32(op.A)*16)
	case OpPushExternInputTextureView, OpPushExternInputUav:
		return fmt.Sprintf("%s (%s+0x%X)", name, op.Extern, uint32(op.A)*8)
	case OpPushFromOutput, OpPopOutput, OpPopOutputMat4, OpPushTemp, OpPopTemp,
		OpPushSampler, OpPushGlobalChannelVector:
		return fmt.Sprintf("%s(%d)", name, op.A)
	case OpSetShaderTexture, OpSetShaderSampler, OpSetShaderUav:
		return fmt.Sprintf("%s stage=%s slot=%d", name, op.Stage, op.Slot)
	case OpPushObjectChannelVector:
		return fmt.Sprintf("%s(%08X)", name, op.Hash)
	case OpPushTexDimensions, OpPushTexTilingParams, OpPushTexTileLayerCount:
		return fmt.Sprintf("%s index=%d fields=%s", name, op.A, swizzleSuffix(op.B))
	case OpUnk49, OpUnk4c, OpUnk50:
		return fmt.Sprintf("%s unk1=%d", name, op.A)
	}
	return name
}

// isPermuteX reports whether op broadcasts the first component, either via
// the dedicated opcode or an explicit .xxxx permute.
func (op Op) isPermuteX() bool {
	return op.Code == OpPermuteExtendX ||
		(op.Code == OpPermute && op.A == 0)
}

// Fprint writes a listing of a program: the constants table followed by the
// disassembled operations.
func (p *Program) Fprint(w io.Writer) {
	if len(p.Constants) != 0 {
		_, _ = fmt.Fprintf(w, "Constants:\n")
		for i, c := range p.Constants {
			_, _ = fmt.Fprintf(w, "%4d: %v\n", i, c)
		}
	}
	_, _ = fmt.Fprintf(w, "Bytecode:\n")
	for i, op := range p.Ops {
		_, _ = fmt.Fprintf(w, "%4d: %s\n", i, op.Disassemble(p.Constants))
	}
}

func constantAt(constants []Vec4, i int) (Vec4, bool) {
	if i < 0 || i >= len(constants) {
		return Vec4{}, false
	}
	return constants[i], true
}
