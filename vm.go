// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"fmt"
	"math"
)

// StackSize is the fixed depth of the evaluation stack.
const StackSize = 64

// NumTempRegisters is the number of Vec4 temp registers, zeroed per
// evaluation.
const NumTempRegisters = 16

// placeholderTexParams is pushed for the push_tex_* family, whose real
// texture metadata is not plumbed through yet. The values keep dependent
// expressions in a sane range.
var placeholderTexParams = Vec4{0.25, 0.25, 0.25, 0.0625}

// Interpreter executes a decoded operation sequence against live extern
// state. It holds no mutable evaluation state itself; a single Interpreter
// may be evaluated repeatedly, but each call needs exclusive use of its
// output buffer and binder.
type Interpreter struct {
	ops    []Op
	strict bool
}

// NewInterpreter creates an Interpreter for the given operation sequence.
func NewInterpreter(ops []Op) *Interpreter {
	return &Interpreter{ops: ops}
}

// SetStrict sets whether operations with unconfirmed semantics abort the
// evaluation instead of applying their known stack adjustment and recording
// a diagnostic.
func (vm *Interpreter) SetStrict(b bool) *Interpreter {
	vm.strict = b
	return vm
}

// Ops returns the operation sequence the interpreter executes.
func (vm *Interpreter) Ops() []Op {
	return vm.ops
}

// evalState is the per-evaluation scratch: the value stack and the temp
// registers.
type evalState struct {
	stack [StackSize]stackValue
	sp    int
	temp  [NumTempRegisters]Vec4
}

func (st *evalState) push(v stackValue) error {
	if st.sp >= StackSize {
		return ErrStackOverflow
	}
	st.stack[st.sp] = v
	st.sp++
	return nil
}

func (st *evalState) pushVec(v Vec4) error {
	return st.push(vecValue(v))
}

// pop removes the top n elements and returns them deepest-first, matching
// the order multi-operand ops consume them.
func (st *evalState) pop(n int) ([]stackValue, error) {
	if st.sp < n {
		return nil, ErrStackUnderflow
	}
	st.sp -= n
	return st.stack[st.sp : st.sp+n], nil
}

func (st *evalState) pop1() (stackValue, error) {
	if st.sp < 1 {
		return stackValue{}, ErrStackUnderflow
	}
	st.sp--
	return st.stack[st.sp], nil
}

// top returns the top element for in-place modification.
func (st *evalState) top() (*stackValue, error) {
	if st.sp < 1 {
		return nil, ErrStackUnderflow
	}
	return &st.stack[st.sp-1], nil
}

// Evaluate runs the operation sequence. Vector results are written to output
// through pop_output ops; resource binds go to binder as they execute. A nil
// output discards writes and reads back as zero, a nil binder drops binds.
// samplers
// backs push_sampler by index. Execution errors abort the call; output
// elements written before the abort keep their new values. A nil externs
// evaluates against fresh default state.
func (vm *Interpreter) Evaluate(
	binder ResourceBinder,
	externs *Storage,
	output []Vec4,
	constants []Vec4,
	samplers []Sampler,
	objectChannels *ObjectChannels,
) error {
	if externs == nil {
		externs = NewStorage()
	}

	var st evalState

	for ip := range vm.ops {
		op := &vm.ops[ip]
		if err := vm.execute(&st, op, binder, externs, output, constants, samplers, objectChannels); err != nil {
			if e, ok := err.(*Error); ok && e.Message == "" {
				return e.NewError(fmt.Sprintf("%s at op %d", op.Name(), ip))
			}
			return err
		}
	}
	return nil
}

func (vm *Interpreter) execute(
	st *evalState,
	op *Op,
	binder ResourceBinder,
	externs *Storage,
	output []Vec4,
	constants []Vec4,
	samplers []Sampler,
	objectChannels *ObjectChannels,
) error {
	switch op.Code {
	case OpAdd, OpAdd2:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.pushVec(v[0].vec.Add(v[1].vec))
	case OpSubtract:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.pushVec(v[0].vec.Sub(v[1].vec))
	case OpMultiply, OpMultiply2:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.pushVec(v[0].vec.Mul(v[1].vec))
	case OpDivide:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.pushVec(v[0].vec.Div(v[1].vec))
	case OpIsZero:
		t, err := st.top()
		if err != nil {
			return err
		}
		v := t.vec
		*t = vecValue(boolsToVec(v[0] == 0, v[1] == 0, v[2] == 0, v[3] == 0))
		return nil
	case OpLessThan:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		second, top := v[0].vec, v[1].vec
		return st.pushVec(boolsToVec(
			top[0] < second[0], top[1] < second[1],
			top[2] < second[2], top[3] < second[3],
		))
	case OpDot:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.pushVec(Splat(v[1].vec.Dot(v[0].vec)))
	case OpMultiplyAdd:
		v, err := st.pop(3)
		if err != nil {
			return err
		}
		return st.pushVec(v[2].vec.Add(v[1].vec.Mul(v[0].vec)))
	case OpClamp:
		v, err := st.pop(3)
		if err != nil {
			return err
		}
		value, lo, hi := v[0].vec, v[1].vec, v[2].vec
		return st.pushVec(value.Clamp(lo, hi))
	case OpNegate:
		return st.replaceTop(Vec4.Neg)
	case OpAbs:
		return st.replaceTop(Vec4.Abs)
	case OpSignum:
		return st.replaceTop(Vec4.Sign)
	case OpFloor:
		return st.replaceTop(Vec4.Floor)
	case OpCeil:
		return st.replaceTop(Vec4.Ceil)
	case OpRound:
		return st.replaceTop(Vec4.Round)
	case OpFrac:
		return st.replaceTop(Vec4.Fract)
	case OpVectorRotSin:
		return st.replaceTop(sinRotations)
	case OpVectorRotCos:
		return st.replaceTop(cosRotations)
	case OpVectorRotSinCos:
		return st.replaceTop(sinCosRotations)
	case OpMerge1_3:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		second, top := v[0].vec, v[1].vec
		return st.pushVec(Vec4{second[0], top[0], top[1], top[2]})
	case OpMerge2_2:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		second, top := v[0].vec, v[1].vec
		return st.pushVec(Vec4{second[0], second[1], top[0], top[1]})
	case OpMerge3_1:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		second, top := v[0].vec, v[1].vec
		return st.pushVec(Vec4{second[0], second[1], second[2], top[0]})
	case OpCubic:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		x, coefficients := v[0].vec, v[1].vec
		return st.pushVec(cubicPoly(x, coefficients))
	case OpLerp, OpLerpSaturated:
		v, err := st.pop(3)
		if err != nil {
			return err
		}
		b, a, t := v[0].vec, v[1].vec, v[2].vec
		r := a.Add(t.Mul(b.Sub(a)))
		if op.Code == OpLerpSaturated {
			r = r.Saturate()
		}
		return st.pushVec(r)
	case OpTriangle:
		return st.replaceTop(triangleWave)
	case OpJitter:
		return st.replaceTop(jitterCurve)
	case OpWander:
		return st.replaceTop(wanderCurve)
	case OpRand:
		return st.replaceTop(randCurve)
	case OpRandSmooth:
		return st.replaceTop(randSmoothCurve)
	case OpTransformVec4:
		v, err := st.pop(5)
		if err != nil {
			return err
		}
		mat := Mat4{v[0].vec, v[1].vec, v[2].vec, v[3].vec}
		return st.pushVec(mat.MulVec4(v[4].vec))
	case OpPermuteExtendX:
		return st.replaceTop(Vec4.XXXX)
	case OpPermute:
		fields := op.A
		return st.replaceTop(func(v Vec4) Vec4 {
			return applySwizzle(v, fields)
		})
	case OpSaturate:
		return st.replaceTop(Vec4.Saturate)
	case OpMin:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.pushVec(v[0].vec.Min(v[1].vec))
	case OpMax:
		v, err := st.pop(2)
		if err != nil {
			return err
		}
		return st.pushVec(v[0].vec.Max(v[1].vec))

	case OpPushConstVec4:
		c, err := vm.constantSpan(constants, int(op.A), 1)
		if err != nil {
			return err
		}
		return st.pushVec(c[0])
	case OpLerpConstant, OpLerpConstantSaturated:
		c, err := vm.constantSpan(constants, int(op.A), 2)
		if err != nil {
			return err
		}
		t, err := st.top()
		if err != nil {
			return err
		}
		a, b := c[0], c[1]
		r := a.Add(t.vec.Mul(b.Sub(a)))
		if op.Code == OpLerpConstantSaturated {
			r = r.Saturate()
		}
		*t = vecValue(r)
		return nil
	case OpSpline4Const:
		c, err := vm.constantSpan(constants, int(op.A), 5)
		if err != nil {
			return err
		}
		t, err := st.top()
		if err != nil {
			return err
		}
		*t = vecValue(spline4Const(t.vec, c[0], c[1], c[2], c[3], c[4]))
		return nil
	case OpSpline8Const:
		c, err := vm.constantSpan(constants, int(op.A), 10)
		if err != nil {
			return err
		}
		t, err := st.top()
		if err != nil {
			return err
		}
		*t = vecValue(spline8Const(t.vec,
			c[0], c[1], c[2], c[3], c[4], c[5], c[6], c[7], c[8], c[9]))
		return nil
	case OpGradient4Const:
		c, err := vm.constantSpan(constants, int(op.A), 6)
		if err != nil {
			return err
		}
		t, err := st.top()
		if err != nil {
			return err
		}
		*t = vecValue(gradient4Const(t.vec, c[0], c[1], c[2], c[3], c[4], c[5]))
		return nil
	case OpUnk3b:
		c, err := vm.constantSpan(constants, int(op.A), 11)
		if err != nil {
			return err
		}
		t, err := st.top()
		if err != nil {
			return err
		}
		var cc [11]Vec4
		copy(cc[:], c)
		*t = vecValue(gradient8Const(t.vec, cc))
		return nil

	case OpPushExternInputFloat:
		return st.pushVec(Splat(externs.Float(op.Extern, int(op.A)*4)))
	case OpPushExternInputVec4:
		return st.pushVec(externs.Vec4(op.Extern, int(op.A)*16))
	case OpPushExternInputMat4:
		m := externs.Mat4(op.Extern, int(op.A)*16)
		for _, axis := range m {
			if err := st.pushVec(axis); err != nil {
				return err
			}
		}
		return nil
	case OpPushExternInputTextureView:
		tex := externs.Texture(op.Extern, int(op.A)*8)
		return st.push(handleValue(handleTexture, tex.Resource))
	case OpPushExternInputUav:
		uav := externs.Texture(op.Extern, int(op.A)*8)
		return st.push(handleValue(handleUav, uav.Resource))
	case OpPushExternInputU32:
		v, _ := externs.Resolve(op.Extern, int(op.A)*4, KindU32)
		return st.pushVec(Vec4{math.Float32frombits(v.U), 0, 0, 0})
	case OpPushSampler:
		if int(op.A) >= len(samplers) {
			return ErrIndexOutOfBounds.NewError(
				fmt.Sprintf("sampler index %d out of range", op.A))
		}
		return st.push(handleValue(handleSampler, samplers[op.A]))

	case OpSetShaderTexture:
		v, err := st.pop1()
		if err != nil {
			return err
		}
		if binder != nil {
			binder.SetShaderTexture(op.Stage, int(op.Slot), v.resource(handleTexture))
		}
		return nil
	case OpSetShaderSampler:
		v, err := st.pop1()
		if err != nil {
			return err
		}
		if binder != nil {
			binder.SetShaderSampler(op.Stage, int(op.Slot), v.resource(handleSampler))
		}
		return nil
	case OpSetShaderUav:
		v, err := st.pop1()
		if err != nil {
			return err
		}
		if binder != nil {
			binder.SetShaderUav(op.Stage, int(op.Slot), v.resource(handleUav))
		}
		return nil

	case OpPushObjectChannelVector:
		v, ok := objectChannels.Get(op.Hash)
		if !ok && externs != nil {
			externs.diags.Record(DiagFieldNotFound,
				fmt.Sprintf("object channel %08X not set", op.Hash))
		}
		return st.pushVec(v)
	case OpPushGlobalChannelVector:
		externs.noteChannelRead(int(op.A))
		return st.pushVec(externs.GlobalChannels[op.A].Value)

	case OpPushFromOutput:
		// a disabled output buffer reads as zero so the stack stays balanced
		if output == nil {
			return st.pushVec(Vec4Zero)
		}
		if int(op.A) >= len(output) {
			return ErrIndexOutOfBounds.NewError(
				fmt.Sprintf("push from output element %d out of range", op.A))
		}
		return st.pushVec(output[op.A])
	case OpPopOutput:
		v, err := st.pop1()
		if err != nil {
			return err
		}
		if output == nil {
			return nil
		}
		if int(op.A) >= len(output) {
			return ErrIndexOutOfBounds.NewError(
				fmt.Sprintf("pop output element %d out of range", op.A))
		}
		output[op.A] = v.vec
		return nil
	case OpPopOutputMat4:
		v, err := st.pop(4)
		if err != nil {
			return err
		}
		if output == nil {
			return nil
		}
		if int(op.A)+3 >= len(output) {
			return ErrIndexOutOfBounds.NewError(
				fmt.Sprintf("pop output mat4 element %d out of range", op.A))
		}
		for i := 0; i < 4; i++ {
			output[int(op.A)+i] = v[i].vec
		}
		return nil
	case OpPushTemp:
		if int(op.A) >= NumTempRegisters {
			return ErrIndexOutOfBounds.NewError(
				fmt.Sprintf("temp slot %d out of range", op.A))
		}
		return st.pushVec(st.temp[op.A])
	case OpPopTemp:
		if int(op.A) >= NumTempRegisters {
			return ErrIndexOutOfBounds.NewError(
				fmt.Sprintf("temp slot %d out of range", op.A))
		}
		v, err := st.pop1()
		if err != nil {
			return err
		}
		st.temp[op.A] = v.vec
		return nil
	}

	return vm.executeUnimplemented(st, op, externs)
}

// executeUnimplemented handles decodable operations whose full semantics are
// unconfirmed. Strict mode aborts; otherwise the operation's known stack
// effect is applied so the rest of the expression stays balanced, and a
// diagnostic is recorded.
func (vm *Interpreter) executeUnimplemented(st *evalState, op *Op, externs *Storage) error {
	if vm.strict {
		return ErrUnimplementedOp.NewError(op.Name())
	}
	if externs != nil {
		externs.diags.Record(DiagUnimplementedOp,
			fmt.Sprintf("expression opcode '%s' is not implemented", op.Name()))
	}

	switch op.Code {
	case OpUnk14:
		_, err := st.pop(2)
		return err
	case OpUnk2c, OpUnk49, OpUnk51:
		_, err := st.pop1()
		return err
	case OpUnk2d:
		_, err := st.pop(4)
		return err
	case OpUnk42, OpUnk4c:
		return st.pushVec(Vec4One)
	case OpUnk50:
		return st.pushVec(Vec4Zero)
	case OpPushTexDimensions, OpPushTexTilingParams, OpPushTexTileLayerCount:
		return st.pushVec(applySwizzle(placeholderTexParams, op.B))
	}
	// remaining ops are observed to leave the stack untouched
	return nil
}

func (st *evalState) replaceTop(f func(Vec4) Vec4) error {
	t, err := st.top()
	if err != nil {
		return err
	}
	*t = vecValue(f(t.vec))
	return nil
}

// constantSpan bounds-checks a constant table reference of n elements
// starting at index.
func (vm *Interpreter) constantSpan(constants []Vec4, index, n int) ([]Vec4, error) {
	if index < 0 || index+n > len(constants) {
		return nil, ErrIndexOutOfBounds.NewError(
			fmt.Sprintf("constants [%d..%d) out of range, table has %d",
				index, index+n, len(constants)))
	}
	return constants[index : index+n], nil
}

// applySwizzle reorders v by the packed 2-bit selectors in fields; the first
// output component comes from the top bits.
func applySwizzle(v Vec4, fields byte) Vec4 {
	return v.Swizzle(fields>>6&0b11, fields>>4&0b11, fields>>2&0b11, fields&0b11)
}
