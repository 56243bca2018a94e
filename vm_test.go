// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordBinder captures binding side effects for assertions.
type recordBinder struct {
	textures map[[2]int]any
	samplers map[[2]int]any
	uavs     map[[2]int]any
}

func newRecordBinder() *recordBinder {
	return &recordBinder{
		textures: map[[2]int]any{},
		samplers: map[[2]int]any{},
		uavs:     map[[2]int]any{},
	}
}

func (b *recordBinder) SetShaderTexture(stage ShaderStage, slot int, view any) {
	b.textures[[2]int{int(stage), slot}] = view
}

func (b *recordBinder) SetShaderSampler(stage ShaderStage, slot int, sampler any) {
	b.samplers[[2]int{int(stage), slot}] = sampler
}

func (b *recordBinder) SetShaderUav(stage ShaderStage, slot int, uav any) {
	b.uavs[[2]int{int(stage), slot}] = uav
}

// evalOutput runs ops with a one element output buffer and returns it.
func evalOutput(t *testing.T, ops []Op, constants []Vec4) Vec4 {
	t.Helper()
	out := make([]Vec4, 1)
	err := NewInterpreter(ops).Evaluate(nil, NewStorage(), out, constants, nil, nil)
	require.NoError(t, err)
	return out[0]
}

// pushc appends v to the constants table and returns the push op for it.
func pushc(constants *[]Vec4, v Vec4) Op {
	*constants = append(*constants, v)
	return Op{Code: OpPushConstVec4, A: byte(len(*constants) - 1)}
}

func TestEvaluateArithmetic(t *testing.T) {
	var c []Vec4
	cases := []struct {
		name string
		ops  []Op
		want Vec4
	}{
		{"add", []Op{
			pushc(&c, Vec4{1, 2, 3, 4}), pushc(&c, Vec4{10, 20, 30, 40}),
			{Code: OpAdd},
		}, Vec4{11, 22, 33, 44}},
		{"subtract second minus top", []Op{
			pushc(&c, Vec4{10, 10, 10, 10}), pushc(&c, Vec4{1, 2, 3, 4}),
			{Code: OpSubtract},
		}, Vec4{9, 8, 7, 6}},
		{"multiply", []Op{
			pushc(&c, Vec4{2, 3, 4, 5}), pushc(&c, Vec4{2, 2, 2, 2}),
			{Code: OpMultiply},
		}, Vec4{4, 6, 8, 10}},
		{"divide second over top", []Op{
			pushc(&c, Vec4{10, 20, 30, 40}), pushc(&c, Vec4{2, 4, 5, 8}),
			{Code: OpDivide},
		}, Vec4{5, 5, 6, 5}},
		{"min", []Op{
			pushc(&c, Vec4{1, 5, 2, 8}), pushc(&c, Vec4{3, 3, 3, 3}),
			{Code: OpMin},
		}, Vec4{1, 3, 2, 3}},
		{"max", []Op{
			pushc(&c, Vec4{1, 5, 2, 8}), pushc(&c, Vec4{3, 3, 3, 3}),
			{Code: OpMax},
		}, Vec4{3, 5, 3, 8}},
		{"dot", []Op{
			pushc(&c, Vec4{1, 2, 3, 4}), pushc(&c, Vec4{1, 1, 1, 1}),
			{Code: OpDot},
		}, Splat(10)},
		{"negate", []Op{
			pushc(&c, Vec4{1, -2, 0, 4}),
			{Code: OpNegate},
		}, Vec4{-1, 2, 0, -4}},
		{"abs", []Op{
			pushc(&c, Vec4{-1, 2, -0.5, 0}),
			{Code: OpAbs},
		}, Vec4{1, 2, 0.5, 0}},
		{"saturate", []Op{
			pushc(&c, Vec4{-1, 0.5, 2, 1}),
			{Code: OpSaturate},
		}, Vec4{0, 0.5, 1, 1}},
		{"floor", []Op{
			pushc(&c, Vec4{1.7, -1.2, 2, 0.5}),
			{Code: OpFloor},
		}, Vec4{1, -2, 2, 0}},
		{"frac", []Op{
			pushc(&c, Vec4{1.25, -0.25, 3, 0}),
			{Code: OpFrac},
		}, Vec4{0.25, 0.75, 0, 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ops := append(append([]Op{}, tc.ops...), Op{Code: OpPopOutput, A: 0})
			require.Equal(t, tc.want, evalOutput(t, ops, c))
		})
	}
}

func TestEvaluateIsZero(t *testing.T) {
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{0, 1, 0, 2}),
		{Code: OpIsZero},
		{Code: OpPopOutput, A: 0},
	}
	require.Equal(t, Vec4{1, 0, 1, 0}, evalOutput(t, ops, c))
}

func TestEvaluateLessThan(t *testing.T) {
	// per lane: top < second
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{5, 5, 5, 5}),
		pushc(&c, Vec4{4, 5, 6, -1}),
		{Code: OpLessThan},
		{Code: OpPopOutput, A: 0},
	}
	require.Equal(t, Vec4{1, 0, 0, 1}, evalOutput(t, ops, c))
}

func TestEvaluateLerp(t *testing.T) {
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{10, 10, 10, 10}),  // b
		pushc(&c, Vec4{0, 0, 0, 0}),      // a
		pushc(&c, Vec4{0.25, 0.5, 1, 2}), // t
		{Code: OpLerp},
		{Code: OpPopOutput, A: 0},
	}
	require.Equal(t, Vec4{2.5, 5, 10, 20}, evalOutput(t, ops, c))

	// the saturated variant clamps the blended result, not t
	ops[3] = Op{Code: OpLerpSaturated}
	require.Equal(t, Vec4One, evalOutput(t, ops, c))
}

func TestEvaluateLerpConstant(t *testing.T) {
	c := []Vec4{{2, 2, 2, 2}, {0, 0, 0, 0}, {4, 4, 4, 4}}
	ops := []Op{
		{Code: OpPushConstVec4, A: 0},
		{Code: OpLerpConstant, A: 1},
		{Code: OpPopOutput, A: 0},
	}
	// a + t*(b-a) = 0 + 2*4
	require.Equal(t, Vec4{8, 8, 8, 8}, evalOutput(t, ops, c))

	ops[1] = Op{Code: OpLerpConstantSaturated, A: 1}
	require.Equal(t, Vec4One, evalOutput(t, ops, c))
}

func TestEvaluateMultiplyAdd(t *testing.T) {
	// result = top + second*third
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{2, 2, 2, 2}),
		pushc(&c, Vec4{3, 3, 3, 3}),
		pushc(&c, Vec4{10, 20, 30, 40}),
		{Code: OpMultiplyAdd},
		{Code: OpPopOutput, A: 0},
	}
	require.Equal(t, Vec4{16, 26, 36, 46}, evalOutput(t, ops, c))
}

func TestEvaluateClamp(t *testing.T) {
	// operands from deepest: value, min, max
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{-5, 0.5, 5, 2}),
		pushc(&c, Vec4{0, 0, 0, 0}),
		pushc(&c, Vec4{1, 1, 1, 3}),
		{Code: OpClamp},
		{Code: OpPopOutput, A: 0},
	}
	require.Equal(t, Vec4{0, 0.5, 1, 2}, evalOutput(t, ops, c))
}

func TestEvaluateMerges(t *testing.T) {
	var c []Vec4
	second := pushc(&c, Vec4{1, 2, 3, 4})
	top := pushc(&c, Vec4{5, 6, 7, 8})

	cases := []struct {
		code Opcode
		want Vec4
	}{
		{OpMerge1_3, Vec4{1, 5, 6, 7}},
		{OpMerge2_2, Vec4{1, 2, 5, 6}},
		{OpMerge3_1, Vec4{1, 2, 3, 5}},
	}
	for _, tc := range cases {
		ops := []Op{second, top, {Code: tc.code}, {Code: OpPopOutput, A: 0}}
		require.Equal(t, tc.want, evalOutput(t, ops, c), OpcodeNames[tc.code])
	}
}

func TestEvaluatePermute(t *testing.T) {
	var c []Vec4
	v := pushc(&c, Vec4{1, 2, 3, 4})

	ops := []Op{v, {Code: OpPermuteExtendX}, {Code: OpPopOutput, A: 0}}
	require.Equal(t, Vec4{1, 1, 1, 1}, evalOutput(t, ops, c))

	ops = []Op{v, {Code: OpPermute, A: 0b11_10_01_00}, {Code: OpPopOutput, A: 0}}
	require.Equal(t, Vec4{4, 3, 2, 1}, evalOutput(t, ops, c))

	ops = []Op{v, {Code: OpPermute, A: 0b01_01_11_11}, {Code: OpPopOutput, A: 0}}
	require.Equal(t, Vec4{2, 2, 4, 4}, evalOutput(t, ops, c))
}

func TestEvaluateTransformVec4(t *testing.T) {
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{1, 0, 0, 0}),
		pushc(&c, Vec4{0, 2, 0, 0}),
		pushc(&c, Vec4{0, 0, 3, 0}),
		pushc(&c, Vec4{0, 0, 0, 4}),
		pushc(&c, Vec4{1, 1, 1, 1}),
		{Code: OpTransformVec4},
		{Code: OpPopOutput, A: 0},
	}
	require.Equal(t, Vec4{1, 2, 3, 4}, evalOutput(t, ops, c))
}

func TestEvaluateCubic(t *testing.T) {
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{2, 2, 2, 2}), // x
		pushc(&c, Vec4{1, 2, 3, 4}), // coefficients
		{Code: OpCubic},
		{Code: OpPopOutput, A: 0},
	}
	// (c0*x + c1)*x^2 + (c2*x + c3) per lane
	require.Equal(t, Splat(26), evalOutput(t, ops, c))
}

func TestEvaluateTempRegisters(t *testing.T) {
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{7, 7, 7, 7}),
		{Code: OpPopTemp, A: 3},
		{Code: OpPushTemp, A: 3},
		{Code: OpPushTemp, A: 0}, // unwritten registers read as zero
		{Code: OpAdd},
		{Code: OpPopOutput, A: 0},
	}
	require.Equal(t, Vec4{7, 7, 7, 7}, evalOutput(t, ops, c))

	bad := []Op{{Code: OpPushTemp, A: NumTempRegisters}}
	err := NewInterpreter(bad).Evaluate(nil, NewStorage(), nil, nil, nil, nil)
	require.True(t, errors.Is(err, ErrIndexOutOfBounds))
}

func TestEvaluateOutputBuffer(t *testing.T) {
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{1, 2, 3, 4}),
		{Code: OpPopOutput, A: 2},
		{Code: OpPushFromOutput, A: 2},
		pushc(&c, Vec4{1, 1, 1, 1}),
		{Code: OpAdd},
		{Code: OpPopOutput, A: 0},
	}
	out := make([]Vec4, 3)
	err := NewInterpreter(ops).Evaluate(nil, NewStorage(), out, c, nil, nil)
	require.NoError(t, err)
	require.Equal(t, Vec4{2, 3, 4, 5}, out[0])
	require.Equal(t, Vec4{1, 2, 3, 4}, out[2])

	bad := []Op{pushc(&c, Vec4One), {Code: OpPopOutput, A: 9}}
	err = NewInterpreter(bad).Evaluate(nil, NewStorage(), out, c, nil, nil)
	require.True(t, errors.Is(err, ErrIndexOutOfBounds))
}

func TestEvaluateOutputMat4(t *testing.T) {
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{1, 0, 0, 0}),
		pushc(&c, Vec4{0, 1, 0, 0}),
		pushc(&c, Vec4{0, 0, 1, 0}),
		pushc(&c, Vec4{0, 0, 0, 1}),
		{Code: OpPopOutputMat4, A: 1},
	}
	out := make([]Vec4, 5)
	err := NewInterpreter(ops).Evaluate(nil, NewStorage(), out, c, nil, nil)
	require.NoError(t, err)
	require.Equal(t, Vec4Zero, out[0])
	require.Equal(t, Vec4{1, 0, 0, 0}, out[1])
	require.Equal(t, Vec4{0, 1, 0, 0}, out[2])
	require.Equal(t, Vec4{0, 0, 1, 0}, out[3])
	require.Equal(t, Vec4{0, 0, 0, 1}, out[4])
}

func TestEvaluateExternFloat(t *testing.T) {
	s := NewStorage()
	s.Frame.GameTime = 42

	ops := []Op{
		{Code: OpPushExternInputFloat, Extern: ExternFrame, A: 0},
		{Code: OpPopOutput, A: 0},
	}
	out := make([]Vec4, 1)
	err := NewInterpreter(ops).Evaluate(nil, s, out, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, Splat(42), out[0])
}

func TestEvaluateExternMat4PushesAxes(t *testing.T) {
	s := NewStorage()
	s.View = NewView()
	s.View.WorldToCamera = Mat4{
		{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}, {13, 14, 15, 16},
	}

	ops := []Op{
		{Code: OpPushExternInputMat4, Extern: ExternView, A: 0x40 / 16},
		{Code: OpPopOutputMat4, A: 0},
	}
	out := make([]Vec4, 4)
	err := NewInterpreter(ops).Evaluate(nil, s, out, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, Vec4{1, 2, 3, 4}, out[0])
	require.Equal(t, Vec4{13, 14, 15, 16}, out[3])
}

func TestEvaluateExternU32Placeholder(t *testing.T) {
	s := NewStorage()
	ops := []Op{
		{Code: OpPushExternInputU32, Extern: ExternFrame, A: 0},
		{Code: OpPopOutput, A: 0},
	}
	out := make([]Vec4, 1)
	err := NewInterpreter(ops).Evaluate(nil, s, out, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(math.MaxUint32), math.Float32bits(out[0][0]))
	require.NotZero(t, s.Diags().Len())
}

func TestEvaluateBindings(t *testing.T) {
	s := NewStorage()
	tex := &struct{ name string }{"lobe"}
	s.Frame.SpecularLobeLookup = TextureView{Resource: tex}

	sampler := &struct{ id int }{7}

	ops := []Op{
		{Code: OpPushExternInputTextureView, Extern: ExternFrame, A: 0xa8 / 8},
		{Code: OpSetShaderTexture, Stage: StagePixel, Slot: 4},
		{Code: OpPushSampler, A: 0},
		{Code: OpSetShaderSampler, Stage: StageVertex, Slot: 1},
	}

	b := newRecordBinder()
	err := NewInterpreter(ops).Evaluate(b, s, nil, nil, []Sampler{sampler}, nil)
	require.NoError(t, err)
	require.Equal(t, any(tex), b.textures[[2]int{int(StagePixel), 4}])
	require.Equal(t, any(sampler), b.samplers[[2]int{int(StageVertex), 1}])
}

func TestEvaluateBindingKindMismatch(t *testing.T) {
	// a plain vector bound as a texture must bind nil, never vector bits
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4One),
		{Code: OpSetShaderTexture, Stage: StagePixel, Slot: 0},
	}
	b := newRecordBinder()
	err := NewInterpreter(ops).Evaluate(b, NewStorage(), nil, c, nil, nil)
	require.NoError(t, err)
	require.Contains(t, b.textures, [2]int{int(StagePixel), 0})
	require.Nil(t, b.textures[[2]int{int(StagePixel), 0}])
}

func TestEvaluateSamplerOutOfRange(t *testing.T) {
	err := NewInterpreter([]Op{{Code: OpPushSampler, A: 3}}).
		Evaluate(nil, NewStorage(), nil, nil, []Sampler{nil}, nil)
	require.True(t, errors.Is(err, ErrIndexOutOfBounds))
}

func TestEvaluateChannels(t *testing.T) {
	s := NewStorage()
	s.GlobalChannels[37].Value = Vec4{9, 0, 0, 0}

	obj := &ObjectChannels{Values: map[uint32]Vec4{0xAABBCCDD: {1, 2, 3, 4}}}

	ops := []Op{
		{Code: OpPushGlobalChannelVector, A: 37},
		{Code: OpPopOutput, A: 0},
		{Code: OpPushObjectChannelVector, Hash: 0xAABBCCDD},
		{Code: OpPopOutput, A: 1},
		{Code: OpPushObjectChannelVector, Hash: 0x11111111},
		{Code: OpPopOutput, A: 2},
	}
	out := make([]Vec4, 3)
	err := NewInterpreter(ops).Evaluate(nil, s, out, nil, nil, obj)
	require.NoError(t, err)
	require.Equal(t, Vec4{9, 0, 0, 0}, out[0])
	require.Equal(t, Vec4{1, 2, 3, 4}, out[1])
	require.Equal(t, Vec4Zero, out[2])

	reads := s.ChannelReads()
	require.Equal(t, uint32(1), reads[37])
	s.ResetChannelReads()
	require.Equal(t, uint32(0), s.ChannelReads()[37])

	// the missing object channel left a trace
	require.NotZero(t, s.Diags().Len())
}

func TestEvaluateStackUnderflow(t *testing.T) {
	err := NewInterpreter([]Op{{Code: OpAdd}}).
		Evaluate(nil, NewStorage(), nil, nil, nil, nil)
	require.True(t, errors.Is(err, ErrStackUnderflow))
	require.Contains(t, err.Error(), "add at op 0")
}

func TestEvaluateStackOverflow(t *testing.T) {
	c := []Vec4{Vec4One}
	ops := make([]Op, StackSize+1)
	for i := range ops {
		ops[i] = Op{Code: OpPushConstVec4, A: 0}
	}
	err := NewInterpreter(ops).Evaluate(nil, NewStorage(), nil, c, nil, nil)
	require.True(t, errors.Is(err, ErrStackOverflow))
}

func TestEvaluateConstantBounds(t *testing.T) {
	cases := []struct {
		code Opcode
		n    int
	}{
		{OpPushConstVec4, 1},
		{OpLerpConstant, 2},
		{OpLerpConstantSaturated, 2},
		{OpSpline4Const, 5},
		{OpGradient4Const, 6},
		{OpSpline8Const, 10},
		{OpUnk3b, 11},
	}
	for _, tc := range cases {
		constants := make([]Vec4, tc.n-1)
		ops := []Op{{Code: OpPushConstVec4, A: 0}, {Code: tc.code, A: 0}}
		if tc.code == OpPushConstVec4 {
			ops, constants = ops[1:], nil
		}
		err := NewInterpreter(ops).Evaluate(nil, NewStorage(), nil, constants, nil, nil)
		require.True(t, errors.Is(err, ErrIndexOutOfBounds), OpcodeNames[tc.code])
	}
}

func TestEvaluateUnimplementedStrict(t *testing.T) {
	err := NewInterpreter([]Op{{Code: OpUnk50, A: 0}}).SetStrict(true).
		Evaluate(nil, NewStorage(), nil, nil, nil, nil)
	require.True(t, errors.Is(err, ErrUnimplementedOp))
}

func TestEvaluateUnimplementedLenient(t *testing.T) {
	s := NewStorage()
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4{5, 5, 5, 5}),
		pushc(&c, Vec4{3, 3, 3, 3}),
		{Code: OpUnk14},       // pops 2
		{Code: OpUnk50, A: 0}, // pushes zero
		{Code: OpUnk42},       // pushes one
		{Code: OpAdd},
		{Code: OpPopOutput, A: 0},
	}
	out := make([]Vec4, 1)
	err := NewInterpreter(ops).Evaluate(nil, s, out, c, nil, nil)
	require.NoError(t, err)
	require.Equal(t, Vec4One, out[0])

	found := false
	for _, d := range s.Diags().Snapshot() {
		if d.Kind == DiagUnimplementedOp {
			found = true
		}
	}
	require.True(t, found)
}

func TestEvaluateTexParamsPlaceholder(t *testing.T) {
	ops := []Op{
		{Code: OpPushTexDimensions, A: 0, B: 0b00_01_10_11},
		{Code: OpPopOutput, A: 0},
	}
	out := make([]Vec4, 1)
	err := NewInterpreter(ops).Evaluate(nil, NewStorage(), out, nil, nil, nil)
	require.NoError(t, err)
	require.Equal(t, placeholderTexParams, out[0])
}

func TestEvaluateNilOutputSkipsOutputOps(t *testing.T) {
	var c []Vec4
	ops := []Op{
		pushc(&c, Vec4One),
		{Code: OpPopOutput, A: 200},
		{Code: OpPushFromOutput, A: 200},
	}
	err := NewInterpreter(ops).Evaluate(nil, NewStorage(), nil, c, nil, nil)
	require.NoError(t, err)
}

func TestEvaluateDeterministic(t *testing.T) {
	c := []Vec4{{0.3, 1.7, 2.9, 4.1}}
	ops := []Op{
		{Code: OpPushConstVec4, A: 0},
		{Code: OpJitter},
		{Code: OpWander},
		{Code: OpRand},
		{Code: OpPopOutput, A: 0},
	}
	first := evalOutput(t, ops, c)
	for i := 0; i < 3; i++ {
		require.Equal(t, first, evalOutput(t, ops, c))
	}
}

func TestEvaluateReusableInterpreter(t *testing.T) {
	c := []Vec4{{1, 2, 3, 4}}
	vm := NewInterpreter([]Op{
		{Code: OpPushConstVec4, A: 0},
		{Code: OpPopTemp, A: 0},
		{Code: OpPushTemp, A: 0},
		{Code: OpPopOutput, A: 0},
	})
	out := make([]Vec4, 1)
	for i := 0; i < 2; i++ {
		out[0] = Vec4Zero
		require.NoError(t, vm.Evaluate(nil, NewStorage(), out, c, nil, nil))
		require.Equal(t, Vec4{1, 2, 3, 4}, out[0])
	}
	require.Len(t, vm.Ops(), 4)
}
