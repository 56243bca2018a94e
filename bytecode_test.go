// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRoundTrip(t *testing.T) {
	data := []byte{
		OpPushConstVec4, 0,
		OpPushExternInputFloat, byte(ExternFrame), 0x00,
		OpMultiply,
		OpVectorRotSin,
		OpPermute, 0b00_01_10_11, // .xyzw reversed selectors
		OpPushObjectChannelVector, 0xDE, 0xAD, 0xBE, 0xEF,
		OpAdd,
		OpSetShaderTexture, byte(StagePixel)<<5 | 3,
		OpPopOutput, 7,
	}

	ops, err := Decode(data, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, ops, 9)

	require.Equal(t, OpPushConstVec4, ops[0].Code)
	require.Equal(t, byte(0), ops[0].A)

	require.Equal(t, ExternFrame, ops[1].Extern)
	require.Equal(t, byte(0), ops[1].A)

	require.Equal(t, uint32(0xDEADBEEF), ops[5].Hash)

	require.Equal(t, StagePixel, ops[7].Stage)
	require.Equal(t, byte(3), ops[7].Slot)

	require.True(t, bytes.Equal(data, Encode(ops)))
}

func TestDecodeHashBigEndian(t *testing.T) {
	// channel hashes are big-endian regardless of the stream's byte order
	data := []byte{OpPushObjectChannelVector, 0x01, 0x02, 0x03, 0x04}
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		ops, err := Decode(data, order)
		require.NoError(t, err)
		require.Equal(t, uint32(0x01020304), ops[0].Hash)
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	for _, code := range []byte{0x00, 0x2f, 0x30, 0x33, 0x59, 0xff} {
		_, err := Decode([]byte{code}, binary.LittleEndian)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrUnknownOpcode), "opcode 0x%02x", code)
	}
}

func TestDecodeNoPartialResult(t *testing.T) {
	data := []byte{OpAdd, OpAdd, 0x00}
	ops, err := Decode(data, binary.LittleEndian)
	require.Error(t, err)
	require.Nil(t, ops)
	require.True(t, errors.Is(err, ErrUnknownOpcode))
}

func TestDecodeTruncatedOperand(t *testing.T) {
	cases := [][]byte{
		{OpPushConstVec4},
		{OpPushExternInputVec4, byte(ExternFrame)},
		{OpPushObjectChannelVector, 0x01, 0x02},
		{OpPushTexDimensions, 0x00},
	}
	for _, data := range cases {
		_, err := Decode(data, binary.LittleEndian)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrTruncatedOperand), "%v", data)
	}
}

func TestDecodeInvalidStage(t *testing.T) {
	for _, operand := range []byte{0 << 5, 7 << 5} {
		_, err := Decode([]byte{OpSetShaderSampler, operand}, binary.LittleEndian)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidStage))
	}

	stage, err := StageFromOperand(byte(StageCompute)<<5 | 9)
	require.NoError(t, err)
	require.Equal(t, StageCompute, stage)
}

func TestDecodeInvalidExtern(t *testing.T) {
	_, err := Decode([]byte{OpPushExternInputFloat, 0xfe, 0x00}, binary.LittleEndian)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidExtern))
}

func TestEncodeAllLayouts(t *testing.T) {
	ops := []Op{
		{Code: OpNegate},
		{Code: OpPushTemp, A: 5},
		{Code: OpPushTexTilingParams, A: 2, B: 0x1b},
		{Code: OpPushExternInputMat4, Extern: ExternView, A: 4},
		{Code: OpSetShaderUav, Stage: StageCompute, Slot: 31},
		{Code: OpPushObjectChannelVector, Hash: 0xCAFEF00D},
	}

	decoded, err := Decode(Encode(ops), binary.LittleEndian)
	require.NoError(t, err)
	require.Equal(t, ops, decoded)
}

func TestDisassemble(t *testing.T) {
	constants := []Vec4{{1, 2, 3, 4}, {5, 6, 7, 8}}

	op := Op{Code: OpPushConstVec4, A: 0}
	require.Contains(t, op.Disassemble(constants), "push_const_vec4(0)")

	op = Op{Code: OpPermute, A: 0b11_10_01_00}
	require.Equal(t, "permute(.wzyx)", op.Disassemble(nil))

	op = Op{Code: OpPushExternInputVec4, Extern: ExternFrame, A: 0x1b}
	require.Equal(t, "push_extern_input_vec4 (Frame+0x1B0)", op.Disassemble(nil))

	op = Op{Code: OpSetShaderTexture, Stage: StageVertex, Slot: 2}
	require.Equal(t, "set_shader_texture stage=VS slot=2", op.Disassemble(nil))
}

func TestProgramFprint(t *testing.T) {
	p := &Program{
		Ops:       []Op{{Code: OpPushConstVec4, A: 0}, {Code: OpPopOutput, A: 0}},
		Constants: []Vec4{{1, 0, 0, 1}},
	}
	var buf bytes.Buffer
	p.Fprint(&buf)
	out := buf.String()
	require.Contains(t, out, "Constants:")
	require.Contains(t, out, "Bytecode:")
	require.Contains(t, out, "pop_output(0)")
}
