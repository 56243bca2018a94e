// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"fmt"
	"math"
)

// Extern identifies a structured input block supplied by the host renderer.
// The set mirrors the wire format's identifier table; most identifiers have
// no block layout mapped yet and resolve as "extern not recognized".
type Extern byte

// List of extern identifiers.
const (
	ExternNone Extern = iota
	ExternFrame
	ExternView
	ExternDeferred
	ExternDeferredLight
	ExternDeferredUberLight
	ExternDeferredShadow
	ExternAtmosphere
	ExternRigidModel
	ExternEditorMesh
	ExternEditorMeshMaterial
	ExternEditorDecal
	ExternEditorTerrain
	ExternEditorTerrainPatch
	ExternEditorTerrainDebug
	ExternSimpleGeometry
	ExternUiFont
	ExternCuiView
	ExternCuiObject
	ExternCuiBitmap
	ExternCuiVideo
	ExternCuiStandard
	ExternCuiHud
	ExternCuiScreenspaceBoxes
	ExternTextureVisualizer
	ExternGeneric
	ExternParticle
	ExternParticleDebug
	ExternGearDyeVisualizationMode
	ExternScreenArea
	ExternMlaa
	ExternMsaa
	ExternHdao
	ExternDownsampleTextureGeneric
	ExternDownsampleDepth
	ExternSsao
	ExternVolumetricObscurance
	ExternPostprocess
	ExternTextureSet
	ExternTransparent
	ExternVignette
	ExternGlobalLighting
	ExternShadowMask
	ExternObjectEffect
	ExternDecal
	ExternDecalSetTransform
	ExternDynamicDecal
	ExternDecoratorWind
	ExternTextureCameraLighting
	ExternVolumeFog
	ExternFxaa
	ExternSmaa
	ExternLetterbox
	ExternDepthOfField
	ExternPostprocessInitialDownsample
	ExternCopyDepth
	ExternDisplacementMotionBlur
	ExternDebugShader
	ExternMinmaxDepth
	ExternSdsmBiasAndScale
	ExternSdsmBiasAndScaleTextures
	ExternComputeShadowMapData
	ExternComputeLocalLightShadowMapData
	ExternBilateralUpsample
	ExternHealthOverlay
	ExternLightProbeDominantLight
	ExternLightProbeLightInstance
	ExternWater
	ExternLensFlare
	ExternScreenShader
	ExternScaler
	ExternGammaControl
	ExternSpeedtreePlacements
	ExternReticle
	ExternDistortion
	ExternWaterDebug
	ExternScreenAreaInput
	ExternWaterDepthPrepass
	ExternOverheadVisibilityMap
	ExternParticleCompute
	ExternCubemapFiltering
	ExternParticleFastpath
	ExternVolumetricsPass
	ExternTemporalReprojection
	ExternFxaaCompute
	ExternVbCopyCompute
	ExternUberDepth
	ExternGearDye
	ExternCubemaps
	ExternShadowBlendWithPrevious
	ExternDebugShadingOutput
	ExternSsao3d
	ExternWaterDisplacement
	ExternPatternBlending
	ExternUiHdrTransform
	ExternPlayerCenteredCascadedGrid
	ExternSoftDeform
)

var externNames = [...]string{
	"None", "Frame", "View", "Deferred", "DeferredLight", "DeferredUberLight",
	"DeferredShadow", "Atmosphere", "RigidModel", "EditorMesh",
	"EditorMeshMaterial", "EditorDecal", "EditorTerrain", "EditorTerrainPatch",
	"EditorTerrainDebug", "SimpleGeometry", "UiFont", "CuiView", "CuiObject",
	"CuiBitmap", "CuiVideo", "CuiStandard", "CuiHud", "CuiScreenspaceBoxes",
	"TextureVisualizer", "Generic", "Particle", "ParticleDebug",
	"GearDyeVisualizationMode", "ScreenArea", "Mlaa", "Msaa", "Hdao",
	"DownsampleTextureGeneric", "DownsampleDepth", "Ssao",
	"VolumetricObscurance", "Postprocess", "TextureSet", "Transparent",
	"Vignette", "GlobalLighting", "ShadowMask", "ObjectEffect", "Decal",
	"DecalSetTransform", "DynamicDecal", "DecoratorWind",
	"TextureCameraLighting", "VolumeFog", "Fxaa", "Smaa", "Letterbox",
	"DepthOfField", "PostprocessInitialDownsample", "CopyDepth",
	"DisplacementMotionBlur", "DebugShader", "MinmaxDepth", "SdsmBiasAndScale",
	"SdsmBiasAndScaleTextures", "ComputeShadowMapData",
	"ComputeLocalLightShadowMapData", "BilateralUpsample", "HealthOverlay",
	"LightProbeDominantLight", "LightProbeLightInstance", "Water", "LensFlare",
	"ScreenShader", "Scaler", "GammaControl", "SpeedtreePlacements", "Reticle",
	"Distortion", "WaterDebug", "ScreenAreaInput", "WaterDepthPrepass",
	"OverheadVisibilityMap", "ParticleCompute", "CubemapFiltering",
	"ParticleFastpath", "VolumetricsPass", "TemporalReprojection",
	"FxaaCompute", "VbCopyCompute", "UberDepth", "GearDye", "Cubemaps",
	"ShadowBlendWithPrevious", "DebugShadingOutput", "Ssao3d",
	"WaterDisplacement", "PatternBlending", "UiHdrTransform",
	"PlayerCenteredCascadedGrid", "SoftDeform",
}

// IsValid reports whether e is inside the known identifier table.
func (e Extern) IsValid() bool {
	return int(e) < len(externNames)
}

func (e Extern) String() string {
	if e.IsValid() {
		return externNames[e]
	}
	return fmt.Sprintf("Extern(%d)", byte(e))
}

// FieldKind is the declared type of an extern field or resolved value.
type FieldKind uint8

const (
	KindFloat FieldKind = iota
	KindVec4
	KindMat4
	KindTexture
	KindU32
)

func (k FieldKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindVec4:
		return "float4"
	case KindMat4:
		return "float4x4"
	case KindTexture:
		return "texture"
	case KindU32:
		return "u32"
	}
	return fmt.Sprintf("FieldKind(%d)", uint8(k))
}

// Value is a resolved extern field value; Kind selects the populated field.
type Value struct {
	Kind FieldKind
	F    float32
	U    uint32
	Vec  Vec4
	Mat  Mat4
	Tex  TextureView
}

func floatVal(f float32) Value   { return Value{Kind: KindFloat, F: f} }
func vecVal(v Vec4) Value        { return Value{Kind: KindVec4, Vec: v} }
func matVal(m Mat4) Value        { return Value{Kind: KindMat4, Mat: m} }
func texVal(t TextureView) Value { return Value{Kind: KindTexture, Tex: t} }
func u32Val(u uint32) Value      { return Value{Kind: KindU32, U: u} }

// defaultValue is what soft resolution failures degrade to, per kind.
func defaultValue(kind FieldKind) Value {
	switch kind {
	case KindFloat:
		return floatVal(1)
	case KindVec4:
		return vecVal(Vec4One)
	case KindMat4:
		return matVal(Mat4Identity)
	case KindU32:
		return u32Val(math.MaxUint32)
	}
	return texVal(TextureView{})
}

// field is one row of a block's field table: the byte offset inside the
// block, the dotted-path name, the declared kind and the accessor. Keeping
// name and accessor in one row is what keeps value resolution and the
// decompiler's path mapping in lockstep.
type field[B any] struct {
	offset int
	name   string
	kind   FieldKind
	unimpl bool
	get    func(*B) Value
}

type blockDef[B any] struct {
	name   string
	fields []field[B]
}

// resolveStatus classifies one field lookup.
type resolveStatus uint8

const (
	statusResolved resolveStatus = iota
	statusUnimplemented
	statusMismatch
	statusFieldNotFound
	statusExternUnknown
	statusExternUnbound
)

func (d *blockDef[B]) value(b *B, offset int, kind FieldKind) (Value, resolveStatus, string) {
	for i := range d.fields {
		fl := &d.fields[i]
		if fl.offset != offset {
			continue
		}
		if fl.kind != kind {
			return Value{}, statusMismatch, fl.name + ": " + fl.kind.String()
		}
		if fl.unimpl {
			return fl.get(b), statusUnimplemented, ""
		}
		return fl.get(b), statusResolved, ""
	}
	return Value{}, statusFieldNotFound, ""
}

func (d *blockDef[B]) fieldName(offset int) (string, bool) {
	for i := range d.fields {
		if d.fields[i].offset == offset {
			return d.fields[i].name, true
		}
	}
	return "", false
}

// Field table row constructors, one per kind.

func f32Field[B any](offset int, name string, unimpl bool, get func(*B) float32) field[B] {
	return field[B]{offset, name, KindFloat, unimpl, func(b *B) Value { return floatVal(get(b)) }}
}

func vecField[B any](offset int, name string, unimpl bool, get func(*B) Vec4) field[B] {
	return field[B]{offset, name, KindVec4, unimpl, func(b *B) Value { return vecVal(get(b)) }}
}

func matField[B any](offset int, name string, unimpl bool, get func(*B) Mat4) field[B] {
	return field[B]{offset, name, KindMat4, unimpl, func(b *B) Value { return matVal(get(b)) }}
}

func texField[B any](offset int, name string, unimpl bool, get func(*B) TextureView) field[B] {
	return field[B]{offset, name, KindTexture, unimpl, func(b *B) Value { return texVal(get(b)) }}
}

// Storage holds the extern blocks supplied by the host for the current
// frame/view plus the global parameter table. Frame is always present; the
// other blocks are bound only while their pass is active. Storage is
// read-only for the duration of an evaluation; refresh it between frames,
// not concurrently with an evaluation in flight.
type Storage struct {
	Frame               Frame
	View                *View
	Deferred            *Deferred
	DeferredLight       *DeferredLight
	DeferredShadow      *DeferredShadow
	Transparent         *Transparent
	RigidModel          *RigidModel
	Decal               *Decal
	SimpleGeometry      *SimpleGeometry
	Atmosphere          *Atmosphere
	Water               *Water
	Hdao                *Hdao
	GlobalLighting      *GlobalLighting
	Cubemaps            *Cubemaps
	SpeedtreePlacements *SpeedtreePlacements
	DecoratorWind       *DecoratorWind
	Postprocess         *Postprocess
	ShadowMask          *ShadowMask

	GlobalChannels [NumGlobalChannels]GlobalChannel

	channelReads [NumGlobalChannels]uint32
	diags        Diagnostics
}

// NewStorage returns a Storage with the always-present blocks and the global
// channel table at their defaults.
func NewStorage() *Storage {
	s := &Storage{
		Frame:          NewFrame(),
		DecoratorWind:  &DecoratorWind{Unk00: Vec4{0, 0, 0, 0.01}},
		GlobalChannels: GlobalChannelDefaults(),
	}
	return s
}

// Diags exposes the soft-error registry accumulated by evaluations.
func (s *Storage) Diags() *Diagnostics {
	return &s.diags
}

// ChannelReads returns a copy of the per-slot global channel read counters.
func (s *Storage) ChannelReads() [NumGlobalChannels]uint32 {
	return s.channelReads
}

// ResetChannelReads zeroes the read counters.
func (s *Storage) ResetChannelReads() {
	s.channelReads = [NumGlobalChannels]uint32{}
}

func (s *Storage) noteChannelRead(slot int) {
	s.channelReads[slot]++
}

func lookupBlock[B any](d *blockDef[B], b *B, offset int, kind FieldKind) (Value, resolveStatus, string) {
	if b == nil {
		return Value{}, statusExternUnbound, ""
	}
	return d.value(b, offset, kind)
}

func (s *Storage) resolveValue(ext Extern, offset int, kind FieldKind) (Value, resolveStatus, string) {
	switch ext {
	case ExternFrame:
		return frameDef.value(&s.Frame, offset, kind)
	case ExternView:
		return lookupBlock(&viewDef, s.View, offset, kind)
	case ExternDeferred:
		return lookupBlock(&deferredDef, s.Deferred, offset, kind)
	case ExternDeferredLight:
		return lookupBlock(&deferredLightDef, s.DeferredLight, offset, kind)
	case ExternDeferredShadow:
		return lookupBlock(&deferredShadowDef, s.DeferredShadow, offset, kind)
	case ExternTransparent:
		return lookupBlock(&transparentDef, s.Transparent, offset, kind)
	case ExternRigidModel:
		return lookupBlock(&rigidModelDef, s.RigidModel, offset, kind)
	case ExternDecal:
		return lookupBlock(&decalDef, s.Decal, offset, kind)
	case ExternSimpleGeometry:
		return lookupBlock(&simpleGeometryDef, s.SimpleGeometry, offset, kind)
	case ExternAtmosphere:
		return lookupBlock(&atmosphereDef, s.Atmosphere, offset, kind)
	case ExternWater:
		return lookupBlock(&waterDef, s.Water, offset, kind)
	case ExternHdao:
		return lookupBlock(&hdaoDef, s.Hdao, offset, kind)
	case ExternGlobalLighting:
		return lookupBlock(&globalLightingDef, s.GlobalLighting, offset, kind)
	case ExternCubemaps:
		return lookupBlock(&cubemapsDef, s.Cubemaps, offset, kind)
	case ExternSpeedtreePlacements:
		return lookupBlock(&speedtreePlacementsDef, s.SpeedtreePlacements, offset, kind)
	case ExternDecoratorWind:
		return lookupBlock(&decoratorWindDef, s.DecoratorWind, offset, kind)
	case ExternPostprocess:
		return lookupBlock(&postprocessDef, s.Postprocess, offset, kind)
	case ExternShadowMask:
		return lookupBlock(&shadowMaskDef, s.ShadowMask, offset, kind)
	}
	return Value{}, statusExternUnknown, ""
}

// Resolve returns the typed value of the field at (ext, offset). Soft
// failures are recorded in the diagnostic registry; all failures except the
// unimplemented-field case return an error alongside the kind's default.
func (s *Storage) Resolve(ext Extern, offset int, kind FieldKind) (Value, error) {
	v, status, detail := s.resolveValue(ext, offset, kind)
	switch status {
	case statusResolved:
		return v, nil
	case statusUnimplemented:
		s.diags.Record(DiagUnimplementedField, fmt.Sprintf(
			"extern field %s@0x%X is unimplemented (type %s)", ext, offset, kind))
		return v, nil
	case statusMismatch:
		s.diags.Record(DiagInvalidType, fmt.Sprintf(
			"extern field %s@0x%X has invalid type (expected %s, declared %s)",
			ext, offset, kind, detail))
		return defaultValue(kind), fmt.Errorf("invalid type: %s@0x%X", ext, offset)
	case statusFieldNotFound:
		s.diags.Record(DiagFieldNotFound, fmt.Sprintf(
			"extern field @0x%X for %s not found (type %s)", offset, ext, kind))
		return defaultValue(kind), fmt.Errorf("field not found: %s@0x%X", ext, offset)
	case statusExternUnknown:
		s.diags.Record(DiagExternNotFound, fmt.Sprintf("extern %s not found", ext))
		return defaultValue(kind), fmt.Errorf("extern not found: %s", ext)
	default: // statusExternUnbound
		s.diags.Record(DiagExternNotSet, fmt.Sprintf("extern %s not set", ext))
		return defaultValue(kind), fmt.Errorf("extern not set: %s", ext)
	}
}

// Typed accessors used by the interpreter. They never fail: resolution
// problems degrade to the kind's default and land in the diagnostics.

func (s *Storage) Float(ext Extern, offset int) float32 {
	v, _ := s.Resolve(ext, offset, KindFloat)
	return v.F
}

func (s *Storage) Vec4(ext Extern, offset int) Vec4 {
	v, _ := s.Resolve(ext, offset, KindVec4)
	return v.Vec
}

func (s *Storage) Mat4(ext Extern, offset int) Mat4 {
	v, _ := s.Resolve(ext, offset, KindMat4)
	return v.Mat
}

func (s *Storage) Texture(ext Extern, offset int) TextureView {
	v, _ := s.Resolve(ext, offset, KindTexture)
	return v.Tex
}

// FieldPath resolves (ext, offset) to the stable dotted path used by the
// decompiler, independent of any live data. It reads the same field tables
// as value resolution.
func FieldPath(ext Extern, offset int) (string, bool) {
	var name string
	var ok bool
	switch ext {
	case ExternFrame:
		name, ok = frameDef.fieldName(offset)
	case ExternView:
		name, ok = viewDef.fieldName(offset)
	case ExternDeferred:
		name, ok = deferredDef.fieldName(offset)
	case ExternDeferredLight:
		name, ok = deferredLightDef.fieldName(offset)
	case ExternDeferredShadow:
		name, ok = deferredShadowDef.fieldName(offset)
	case ExternTransparent:
		name, ok = transparentDef.fieldName(offset)
	case ExternRigidModel:
		name, ok = rigidModelDef.fieldName(offset)
	case ExternDecal:
		name, ok = decalDef.fieldName(offset)
	case ExternSimpleGeometry:
		name, ok = simpleGeometryDef.fieldName(offset)
	case ExternAtmosphere:
		name, ok = atmosphereDef.fieldName(offset)
	case ExternWater:
		name, ok = waterDef.fieldName(offset)
	case ExternHdao:
		name, ok = hdaoDef.fieldName(offset)
	case ExternGlobalLighting:
		name, ok = globalLightingDef.fieldName(offset)
	case ExternCubemaps:
		name, ok = cubemapsDef.fieldName(offset)
	case ExternSpeedtreePlacements:
		name, ok = speedtreePlacementsDef.fieldName(offset)
	case ExternDecoratorWind:
		name, ok = decoratorWindDef.fieldName(offset)
	case ExternPostprocess:
		name, ok = postprocessDef.fieldName(offset)
	case ExternShadowMask:
		name, ok = shadowMaskDef.fieldName(offset)
	default:
		return "", false
	}
	if !ok {
		return "", false
	}
	return blockName(ext) + "->" + name, true
}

func blockName(ext Extern) string {
	switch ext {
	case ExternFrame:
		return frameDef.name
	case ExternView:
		return viewDef.name
	case ExternDeferred:
		return deferredDef.name
	case ExternDeferredLight:
		return deferredLightDef.name
	case ExternDeferredShadow:
		return deferredShadowDef.name
	case ExternTransparent:
		return transparentDef.name
	case ExternRigidModel:
		return rigidModelDef.name
	case ExternDecal:
		return decalDef.name
	case ExternSimpleGeometry:
		return simpleGeometryDef.name
	case ExternAtmosphere:
		return atmosphereDef.name
	case ExternWater:
		return waterDef.name
	case ExternHdao:
		return hdaoDef.name
	case ExternGlobalLighting:
		return globalLightingDef.name
	case ExternCubemaps:
		return cubemapsDef.name
	case ExternSpeedtreePlacements:
		return speedtreePlacementsDef.name
	case ExternDecoratorWind:
		return decoratorWindDef.name
	case ExternPostprocess:
		return postprocessDef.name
	case ExternShadowMask:
		return shadowMaskDef.name
	}
	return ext.String()
}
