// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import "fmt"

// ShaderStage identifies the pipeline stage a resource binding targets. The
// wire encoding packs the stage into the top 3 bits of the operand byte.
type ShaderStage byte

const (
	StagePixel    ShaderStage = 1
	StageVertex   ShaderStage = 2
	StageGeometry ShaderStage = 3
	StageHull     ShaderStage = 4
	StageCompute  ShaderStage = 5
	StageDomain   ShaderStage = 6
)

// StageFromOperand extracts the shader stage from a binding operand byte.
// Values 0 and 7 have no stage assigned and fail.
func StageFromOperand(value byte) (ShaderStage, error) {
	s := ShaderStage(value >> 5)
	if s < StagePixel || s > StageDomain {
		return 0, ErrInvalidStage.NewError(fmt.Sprintf("stage value %d", value))
	}
	return s, nil
}

// String returns the short stage name used in disassembly and decompilation.
func (s ShaderStage) String() string {
	switch s {
	case StagePixel:
		return "PS"
	case StageVertex:
		return "VS"
	case StageGeometry:
		return "GS"
	case StageHull:
		return "HS"
	case StageCompute:
		return "CS"
	case StageDomain:
		return "DS"
	}
	return fmt.Sprintf("ShaderStage(%d)", byte(s))
}

// TextureView is an opaque reference to a host texture view (or UAV). The
// zero value is the null view. The evaluator never inspects Resource; it only
// carries it to the binder.
type TextureView struct {
	Resource any
}

// UnorderedAccessView shares the representation of TextureView.
type UnorderedAccessView = TextureView

// IsNull reports whether no host resource is attached.
func (t TextureView) IsNull() bool { return t.Resource == nil }

// Sampler is an opaque host sampler handle; nil means no sampler.
type Sampler = any

// ResourceBinder receives binding side effects during evaluation. Bind calls
// take effect immediately, on the caller's graphics context; a nil resource
// means "unbind the slot". Implementations are not expected to be safe for
// use across submission contexts.
type ResourceBinder interface {
	SetShaderTexture(stage ShaderStage, slot int, view any)
	SetShaderSampler(stage ShaderStage, slot int, sampler any)
	SetShaderUav(stage ShaderStage, slot int, uav any)
}

// handleKind tags stack values carrying an opaque resource instead of plain
// vector data.
type handleKind uint8

const (
	handleNone handleKind = iota
	handleTexture
	handleSampler
	handleUav
)

// stackValue is one evaluation stack element: a vector, optionally shadowed
// by a resource handle for the few ops that traffic in textures, samplers and
// UAVs. Vector ops see the vector part and drop the handle.
type stackValue struct {
	vec  Vec4
	kind handleKind
	res  any
}

func vecValue(v Vec4) stackValue {
	return stackValue{vec: v}
}

func handleValue(kind handleKind, res any) stackValue {
	return stackValue{kind: kind, res: res}
}

// resource returns the attached handle if the value carries one of the
// expected kind, else nil. A mismatched kind reads as no resource so a bind
// op never receives vector bits reinterpreted as a handle.
func (v stackValue) resource(kind handleKind) any {
	if v.kind == kind {
		return v.res
	}
	return nil
}
