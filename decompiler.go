// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"fmt"
	"strings"
)

// BoundExpr is one resource binding produced by decompilation: the slot and
// stage it targets and the symbolic expression that produced the resource.
type BoundExpr struct {
	Slot  int
	Stage ShaderStage
	Expr  string
}

// CbExpr is one output buffer write: the element index and the symbolic
// expression written there. Mat4 marks a matrix write spanning four
// consecutive elements starting at Element.
type CbExpr struct {
	Element int
	Expr    string
	Mat4    bool
}

// Decompilation groups the symbolic results of a program by destination.
type Decompilation struct {
	Textures    []BoundExpr
	Samplers    []BoundExpr
	Uavs        []BoundExpr
	Expressions []CbExpr
}

// String renders the decompilation as HLSL-flavored pseudocode.
func (d *Decompilation) String() string {
	var b strings.Builder

	if len(d.Samplers) != 0 {
		b.WriteString("// Samplers\n")
		for _, s := range d.Samplers {
			fmt.Fprintf(&b, "SamplerState s%d = %s;\n", s.Slot, s.Expr)
		}
	}

	if len(d.Textures) != 0 {
		b.WriteString("\n// Textures\n")
		for _, t := range d.Textures {
			fmt.Fprintf(&b, "Texture<float4> t%d = %s;\n", t.Slot, t.Expr)
		}
	}

	if len(d.Uavs) != 0 {
		b.WriteString("\n// UAVs\n")
		for _, u := range d.Uavs {
			fmt.Fprintf(&b, "RWTexture<float4> t%d = %s;\n", u.Slot, u.Expr)
		}
	}

	if len(d.Expressions) != 0 {
		b.WriteString("\n// Constant buffer\n")
		for _, e := range d.Expressions {
			if e.Mat4 {
				fmt.Fprintf(&b, "cb0[%d..%d] = %s;\n", e.Element, e.Element+3, e.Expr)
			} else {
				fmt.Fprintf(&b, "cb0[%d] = %s;\n", e.Element, e.Expr)
			}
		}
	}

	return b.String()
}

// decompState runs the same stack discipline as the interpreter over symbolic
// strings, so an expression's rendered operands always match what evaluation
// would consume.
type decompState struct {
	stack [StackSize]string
	sp    int
	temp  [NumTempRegisters]string
}

func (st *decompState) push(expr string) error {
	if st.sp >= StackSize {
		return ErrStackOverflow
	}
	st.stack[st.sp] = expr
	st.sp++
	return nil
}

// pop removes the top n expressions and returns them deepest-first.
func (st *decompState) pop(n int) ([]string, error) {
	if st.sp < n {
		return nil, ErrStackUnderflow
	}
	st.sp -= n
	return st.stack[st.sp : st.sp+n], nil
}

func (st *decompState) pop1() (string, error) {
	if st.sp < 1 {
		return "", ErrStackUnderflow
	}
	st.sp--
	return st.stack[st.sp], nil
}

func (st *decompState) top() (*string, error) {
	if st.sp < 1 {
		return nil, ErrStackUnderflow
	}
	return &st.stack[st.sp-1], nil
}

// Decompile renders a program as symbolic expressions grouped by
// destination. It is strict: an operation with no rendering rule fails with
// ErrUnsupportedOp rather than producing misleading output.
func Decompile(ops []Op, constants []Vec4) (*Decompilation, error) {
	d := &Decompilation{}
	var st decompState

	for ip := range ops {
		op := &ops[ip]
		if err := decompileOp(d, &st, op, constants); err != nil {
			if e, ok := err.(*Error); ok && e.Message == "" {
				return nil, e.NewError(fmt.Sprintf("%s at op %d", op.Name(), ip))
			}
			return nil, err
		}
	}
	return d, nil
}

func decompileOp(d *Decompilation, st *decompState, op *Op, constants []Vec4) error {
	binary := func(format string) error {
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf(format, v[0], v[1]))
	}
	unary := func(format string) error {
		v, err := st.pop1()
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf(format, v))
	}

	switch op.Code {
	case OpAdd, OpAdd2:
		return binary("(%s + %s)")
	case OpSubtract:
		return binary("(%s - %s)")
	case OpMultiply, OpMultiply2:
		return binary("(%s * %s)")
	case OpDivide:
		return binary("(%s / %s)")
	case OpIsZero:
		return unary("(%s == 0)")
	case OpMin:
		return binary("min(%s, %s)")
	case OpMax:
		return binary("max(%s, %s)")
	case OpLessThan:
		// evaluation compares the top against the value below it
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("(%s < %s)", v[1], v[0]))
	case OpDot:
		return binary("dot(%s, %s)")
	case OpMerge1_3:
		return binary("float4(%s.x, %s.xyz)")
	case OpMerge2_2:
		return binary("float4(%s.xy, %s.xy)")
	case OpMerge3_1:
		return binary("float4(%s.xyz, %s.x)")
	case OpCubic:
		return binary("cubic(%s, %s)")
	case OpLerp:
		v, err := st.pop(3)
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("lerp(%s, %s, %s)", v[1], v[0], v[2]))
	case OpLerpSaturated:
		v, err := st.pop(3)
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("saturate(lerp(%s, %s, %s))", v[1], v[0], v[2]))
	case OpMultiplyAdd:
		// top + second*third, rendered as fma(a, b, c) = a*b + c
		v, err := st.pop(3)
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("fma(%s, %s, %s)", v[0], v[1], v[2]))
	case OpClamp:
		v, err := st.pop(3)
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("clamp(%s, %s, %s)", v[0], v[1], v[2]))
	case OpAbs:
		return unary("abs(%s)")
	case OpSignum:
		return unary("sign(%s)")
	case OpFloor:
		return unary("floor(%s)")
	case OpCeil:
		return unary("ceil(%s)")
	case OpRound:
		return unary("round(%s)")
	case OpFrac:
		return unary("frac(%s)")
	case OpUnk1c:
		return unary("unk1c(%s)")
	case OpNegate:
		return unary("-%s")
	case OpVectorRotSin:
		return unary("_trig_helper_vector_sin_rotations_estimate(%s)")
	case OpVectorRotCos:
		return unary("_trig_helper_vector_cos_rotations_estimate(%s)")
	case OpVectorRotSinCos:
		return unary("_trig_helper_vector_sin_cos_rotations_estimate(%s)")
	case OpPermuteExtendX:
		t, err := st.top()
		if err != nil {
			return err
		}
		*t += ".xxxx"
		return nil
	case OpPermute:
		t, err := st.top()
		if err != nil {
			return err
		}
		*t += swizzleSuffix(op.A)
		return nil
	case OpSaturate:
		return unary("saturate(%s)")
	case OpUnk24:
		return unary("unk24(%s)")
	case OpUnk25:
		return unary("unk25(%s)")
	case OpUnk26:
		return unary("unk26(%s)")
	case OpTriangle:
		return unary("triangle(%s)")
	case OpJitter:
		return unary("jitter(%s)")
	case OpWander:
		return unary("wander(%s)")
	case OpRand:
		return unary("rand(%s)")
	case OpRandSmooth:
		return unary("rand_smooth(%s)")
	case OpTransformVec4:
		v, err := st.pop(5)
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("mul(%s, float4x4(%s, %s, %s, %s))",
			v[4], v[0], v[1], v[2], v[3]))

	case OpPushConstVec4:
		c, err := decompConstants(constants, int(op.A), 1)
		if err != nil {
			return err
		}
		return st.push(c[0])
	case OpLerpConstant:
		c, err := decompConstants(constants, int(op.A), 2)
		if err != nil {
			return err
		}
		v, err := st.pop1()
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("lerp(%s, %s, %s)", c[0], c[1], v))
	case OpLerpConstantSaturated:
		c, err := decompConstants(constants, int(op.A), 2)
		if err != nil {
			return err
		}
		v, err := st.pop1()
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("saturate(lerp(%s, %s, %s))", c[0], c[1], v))
	case OpSpline4Const:
		c, err := decompConstants(constants, int(op.A), 5)
		if err != nil {
			return err
		}
		v, err := st.pop1()
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("spline4_const(%s, %s)", v, strings.Join(c, ", ")))
	case OpSpline8Const:
		c, err := decompConstants(constants, int(op.A), 10)
		if err != nil {
			return err
		}
		v, err := st.pop1()
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("spline8_const(%s, %s)", v, strings.Join(c, ", ")))
	case OpGradient4Const:
		c, err := decompConstants(constants, int(op.A), 6)
		if err != nil {
			return err
		}
		v, err := st.pop1()
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("gradient4_const(%s, %s)", v, strings.Join(c, ", ")))
	case OpUnk3b:
		c, err := decompConstants(constants, int(op.A), 11)
		if err != nil {
			return err
		}
		v, err := st.pop1()
		if err != nil {
			return err
		}
		return st.push(fmt.Sprintf("unk3b(%s, %s)", v, strings.Join(c, ", ")))

	case OpPushExternInputFloat:
		return st.push(fmt.Sprintf("extern<float>(%s)", externPath(op.Extern, int(op.A)*4)))
	case OpPushExternInputVec4:
		return st.push(fmt.Sprintf("extern<float4>(%s)", externPath(op.Extern, int(op.A)*16)))
	case OpPushExternInputMat4:
		// four axes, mirroring the evaluation stack effect
		expr := fmt.Sprintf("extern<float4x4>(%s)", externPath(op.Extern, int(op.A)*16))
		for _, axis := range [...]string{".x_axis", ".y_axis", ".z_axis", ".w_axis"} {
			if err := st.push(expr + axis); err != nil {
				return err
			}
		}
		return nil
	case OpPushExternInputTextureView:
		return st.push(fmt.Sprintf("extern<Texture>(%s)", externPath(op.Extern, int(op.A)*8)))
	case OpPushExternInputU32:
		return st.push(fmt.Sprintf("extern<u32>(%s)", externPath(op.Extern, int(op.A)*4)))
	case OpPushExternInputUav:
		return st.push(fmt.Sprintf("extern<UAV>(%s)", externPath(op.Extern, int(op.A)*8)))

	case OpPushFromOutput:
		return st.push(fmt.Sprintf("cb0[%d]", op.A))
	case OpPopOutput:
		v, err := st.pop1()
		if err != nil {
			return err
		}
		d.Expressions = append(d.Expressions, CbExpr{Element: int(op.A), Expr: v})
		return nil
	case OpPopOutputMat4:
		v, err := st.pop(4)
		if err != nil {
			return err
		}
		// collapse four axis pushes of the same matrix into one write
		if base, ok := mat4Base(v); ok {
			d.Expressions = append(d.Expressions, CbExpr{Element: int(op.A), Expr: base, Mat4: true})
			return nil
		}
		for i, expr := range v {
			d.Expressions = append(d.Expressions, CbExpr{Element: int(op.A) + i, Expr: expr})
		}
		return nil
	case OpPushTemp:
		if int(op.A) >= NumTempRegisters {
			return ErrIndexOutOfBounds.NewError(
				fmt.Sprintf("temp slot %d out of range", op.A))
		}
		expr := st.temp[op.A]
		if expr == "" {
			expr = fmt.Sprintf("TEMP_UNDEFINED_%d", op.A)
		}
		return st.push(expr)
	case OpPopTemp:
		if int(op.A) >= NumTempRegisters {
			return ErrIndexOutOfBounds.NewError(
				fmt.Sprintf("temp slot %d out of range", op.A))
		}
		v, err := st.pop1()
		if err != nil {
			return err
		}
		st.temp[op.A] = v
		return nil

	case OpSetShaderTexture:
		v, err := st.pop1()
		if err != nil {
			return err
		}
		d.Textures = append(d.Textures, BoundExpr{Slot: int(op.Slot), Stage: op.Stage, Expr: v})
		return nil
	case OpSetShaderSampler:
		v, err := st.pop1()
		if err != nil {
			return err
		}
		d.Samplers = append(d.Samplers, BoundExpr{Slot: int(op.Slot), Stage: op.Stage, Expr: v})
		return nil
	case OpSetShaderUav:
		v, err := st.pop1()
		if err != nil {
			return err
		}
		d.Uavs = append(d.Uavs, BoundExpr{Slot: int(op.Slot), Stage: op.Stage, Expr: v})
		return nil

	case OpUnk49:
		// consumes its operand without producing a value
		_, err := st.pop1()
		return err
	case OpUnk4c:
		return st.push(fmt.Sprintf("unk4c(%d)", op.A))
	case OpPushSampler:
		return st.push(fmt.Sprintf("get_sampler(%d)", op.A))
	case OpPushObjectChannelVector:
		return st.push(fmt.Sprintf("object_channel(%08X)", op.Hash))
	case OpPushGlobalChannelVector:
		return st.push(fmt.Sprintf("global_channel(%d)", op.A))
	case OpPushTexDimensions:
		return st.push(fmt.Sprintf("tex_dimensions(%d)%s", op.A, swizzleSuffix(op.B)))
	case OpPushTexTilingParams:
		return st.push(fmt.Sprintf("tex_tiling_params(%d)%s", op.A, swizzleSuffix(op.B)))
	case OpPushTexTileLayerCount:
		return st.push(fmt.Sprintf("tex_tile_layer_count(%d)%s", op.A, swizzleSuffix(op.B)))
	}

	return ErrUnsupportedOp.NewError(op.Name())
}

// externPath resolves an extern reference to its dotted path, or an
// offset-based placeholder when the field is unmapped.
func externPath(ext Extern, offsetBytes int) string {
	if path, ok := FieldPath(ext, offsetBytes); ok {
		return path
	}
	return fmt.Sprintf("%s->_0x%x", ext, offsetBytes)
}

// decompConstants formats a constant table span as float4 literals.
func decompConstants(constants []Vec4, index, n int) ([]string, error) {
	if index < 0 || index+n > len(constants) {
		return nil, ErrIndexOutOfBounds.NewError(
			fmt.Sprintf("constants [%d..%d) out of range, table has %d",
				index, index+n, len(constants)))
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		c := constants[index+i]
		out[i] = fmt.Sprintf("float4(%v, %v, %v, %v)", c[0], c[1], c[2], c[3])
	}
	return out, nil
}

// mat4Base reports the shared base expression if the four expressions are
// the axis components of one matrix push.
func mat4Base(v []string) (string, bool) {
	suffixes := [...]string{".x_axis", ".y_axis", ".z_axis", ".w_axis"}
	base := strings.TrimSuffix(v[0], suffixes[0])
	if base == v[0] || !strings.HasPrefix(base, "extern<float4x4>") {
		return "", false
	}
	for i := 1; i < 4; i++ {
		if v[i] != base+suffixes[i] {
			return "", false
		}
	}
	return base, true
}
