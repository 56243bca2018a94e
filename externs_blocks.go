// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

// Block layouts and field tables. Offsets are byte offsets into the block as
// the expression stream addresses them. Fields flagged unimplemented return
// their value but land in the diagnostics registry so missing host plumbing
// is visible. Unknown fields keep their offset-derived names until someone
// identifies them.

// Frame carries per-frame timing and lookup textures. Always present.
type Frame struct {
	GameTime              float32
	RenderTime            float32
	Unk0C                 float32
	Unk10                 float32
	DeltaGameTime         float32
	ExposureTime          float32
	ExposureScale         float32
	Unk20                 float32
	Unk24                 float32
	ExposureIllumRelative float32
	Unk2C                 float32
	Unk40                 float32
	Unk70                 float32
	Unk78                 TextureView
	Unk80                 TextureView
	Unk88                 TextureView
	Unk90                 TextureView
	Unk98                 TextureView
	UnkA0                 TextureView
	SpecularLobeLookup    TextureView
	SpecularLobe3DLookup  TextureView
	SpecularTintLookup    TextureView
	IridescenceLookup     TextureView
	UnkD0                 Vec4
	Unk150                Vec4
	Unk160                Vec4
	Unk170                Vec4
	Unk180                Vec4
	Unk190                float32
	Unk194                float32
	// When not zero, causes a weird noise pattern on cutout textures
	Unk1A0 Vec4
	Unk1B0 Vec4
	Unk1C0 Vec4
	Unk1E0 TextureView
	Unk1E8 TextureView
	Unk1F0 TextureView
}

func NewFrame() Frame {
	return Frame{
		GameTime: 1, RenderTime: 1, Unk0C: 1, Unk10: 1, DeltaGameTime: 1,
		ExposureTime: 1, ExposureScale: 1, Unk20: 1, Unk24: 1,
		ExposureIllumRelative: 1, Unk2C: 1, Unk40: 1, Unk70: 1,
		UnkD0: Vec4One, Unk150: Vec4One, Unk160: Vec4One, Unk170: Vec4One,
		Unk180: Vec4One, Unk190: 1, Unk194: 1,
		Unk1A0: Vec4Zero, Unk1B0: Vec4One, Unk1C0: Vec4{1, 1, 0, 1},
	}
}

var frameDef = blockDef[Frame]{name: "frame", fields: []field[Frame]{
	f32Field(0x00, "game_time", false, func(b *Frame) float32 { return b.GameTime }),
	f32Field(0x04, "render_time", false, func(b *Frame) float32 { return b.RenderTime }),
	f32Field(0x0c, "unk0c", true, func(b *Frame) float32 { return b.Unk0C }),
	f32Field(0x10, "unk10", true, func(b *Frame) float32 { return b.Unk10 }),
	f32Field(0x14, "delta_game_time", true, func(b *Frame) float32 { return b.DeltaGameTime }),
	f32Field(0x18, "exposure_time", true, func(b *Frame) float32 { return b.ExposureTime }),
	f32Field(0x1c, "exposure_scale", false, func(b *Frame) float32 { return b.ExposureScale }),
	f32Field(0x20, "unk20", true, func(b *Frame) float32 { return b.Unk20 }),
	f32Field(0x24, "unk24", true, func(b *Frame) float32 { return b.Unk24 }),
	f32Field(0x28, "exposure_illum_relative", true, func(b *Frame) float32 { return b.ExposureIllumRelative }),
	f32Field(0x2c, "unk2c", true, func(b *Frame) float32 { return b.Unk2C }),
	f32Field(0x40, "unk40", true, func(b *Frame) float32 { return b.Unk40 }),
	f32Field(0x70, "unk70", true, func(b *Frame) float32 { return b.Unk70 }),
	texField(0x78, "unk78", true, func(b *Frame) TextureView { return b.Unk78 }),
	texField(0x80, "unk80", true, func(b *Frame) TextureView { return b.Unk80 }),
	texField(0x88, "unk88", true, func(b *Frame) TextureView { return b.Unk88 }),
	texField(0x90, "unk90", true, func(b *Frame) TextureView { return b.Unk90 }),
	texField(0x98, "unk98", true, func(b *Frame) TextureView { return b.Unk98 }),
	texField(0xa0, "unka0", true, func(b *Frame) TextureView { return b.UnkA0 }),
	texField(0xa8, "specular_lobe_lookup", false, func(b *Frame) TextureView { return b.SpecularLobeLookup }),
	texField(0xb0, "specular_lobe_3d_lookup", false, func(b *Frame) TextureView { return b.SpecularLobe3DLookup }),
	texField(0xb8, "specular_tint_lookup", false, func(b *Frame) TextureView { return b.SpecularTintLookup }),
	texField(0xc0, "iridescence_lookup", false, func(b *Frame) TextureView { return b.IridescenceLookup }),
	vecField(0xd0, "unkd0", true, func(b *Frame) Vec4 { return b.UnkD0 }),
	vecField(0x150, "unk150", true, func(b *Frame) Vec4 { return b.Unk150 }),
	vecField(0x160, "unk160", true, func(b *Frame) Vec4 { return b.Unk160 }),
	vecField(0x170, "unk170", true, func(b *Frame) Vec4 { return b.Unk170 }),
	vecField(0x180, "unk180", true, func(b *Frame) Vec4 { return b.Unk180 }),
	f32Field(0x190, "unk190", true, func(b *Frame) float32 { return b.Unk190 }),
	f32Field(0x194, "unk194", true, func(b *Frame) float32 { return b.Unk194 }),
	vecField(0x1a0, "unk1a0", false, func(b *Frame) Vec4 { return b.Unk1A0 }),
	vecField(0x1b0, "unk1b0", false, func(b *Frame) Vec4 { return b.Unk1B0 }),
	vecField(0x1c0, "unk1c0", false, func(b *Frame) Vec4 { return b.Unk1C0 }),
	texField(0x1e0, "unk1e0", true, func(b *Frame) TextureView { return b.Unk1E0 }),
	texField(0x1e8, "unk1e8", true, func(b *Frame) TextureView { return b.Unk1E8 }),
	texField(0x1f0, "unk1f0", true, func(b *Frame) TextureView { return b.Unk1F0 }),
}}

// View carries the camera transforms for the active viewport.
type View struct {
	ResolutionWidth    float32
	ResolutionHeight   float32
	ViewMiscellaneous  Vec4
	Position           Vec4
	Unk30              Vec4
	WorldToCamera      Mat4
	CameraToProjective Mat4
	CameraToWorld      Mat4
	ProjectiveToCamera Mat4
	WorldToProjective  Mat4
	ProjectiveToWorld  Mat4
	TargetPixelToWorld Mat4
	TargetPixelToCam   Mat4
	Unk240             Mat4
	TptowNoProjW       Mat4
	Unk2C0             Mat4
}

func NewView() *View {
	return &View{
		ResolutionWidth: 1, ResolutionHeight: 1,
		ViewMiscellaneous: Vec4One, Position: Vec4One, Unk30: Vec4One,
		WorldToCamera: Mat4Identity, CameraToProjective: Mat4Identity,
		CameraToWorld: Mat4Identity, ProjectiveToCamera: Mat4Identity,
		WorldToProjective: Mat4Identity, ProjectiveToWorld: Mat4Identity,
		TargetPixelToWorld: Mat4Identity, TargetPixelToCam: Mat4Identity,
		Unk240: Mat4Identity, TptowNoProjW: Mat4Identity, Unk2C0: Mat4Identity,
	}
}

var viewDef = blockDef[View]{name: "view", fields: []field[View]{
	f32Field(0x00, "resolution_width", false, func(b *View) float32 { return b.ResolutionWidth }),
	f32Field(0x04, "resolution_height", false, func(b *View) float32 { return b.ResolutionHeight }),
	vecField(0x10, "view_miscellaneous", false, func(b *View) Vec4 { return b.ViewMiscellaneous }),
	vecField(0x20, "position", false, func(b *View) Vec4 { return b.Position }),
	vecField(0x30, "unk30", false, func(b *View) Vec4 { return b.Unk30 }),
	matField(0x40, "world_to_camera", false, func(b *View) Mat4 { return b.WorldToCamera }),
	matField(0x80, "camera_to_projective", false, func(b *View) Mat4 { return b.CameraToProjective }),
	matField(0xc0, "camera_to_world", false, func(b *View) Mat4 { return b.CameraToWorld }),
	matField(0x100, "projective_to_camera", false, func(b *View) Mat4 { return b.ProjectiveToCamera }),
	matField(0x140, "world_to_projective", false, func(b *View) Mat4 { return b.WorldToProjective }),
	matField(0x180, "projective_to_world", false, func(b *View) Mat4 { return b.ProjectiveToWorld }),
	matField(0x1c0, "target_pixel_to_world", false, func(b *View) Mat4 { return b.TargetPixelToWorld }),
	matField(0x200, "target_pixel_to_camera", false, func(b *View) Mat4 { return b.TargetPixelToCam }),
	matField(0x240, "unk240", true, func(b *View) Mat4 { return b.Unk240 }),
	matField(0x280, "tptow_no_proj_w", false, func(b *View) Mat4 { return b.TptowNoProjW }),
	matField(0x2c0, "unk2c0", true, func(b *View) Mat4 { return b.Unk2C0 }),
}}

// Deferred exposes the gbuffer and lighting surfaces.
type Deferred struct {
	DepthConstants    Vec4
	Unk10             Vec4
	Unk20             Vec4
	Unk30             float32
	DeferredDepth     TextureView
	DeferredRt0       TextureView
	DeferredRt1       TextureView
	DeferredRt2       TextureView
	LightDiffuse      TextureView
	LightSpecular     TextureView
	LightIblSpecular  TextureView
	Unk78             TextureView
	Unk80             TextureView
	Unk88             TextureView
	Unk90             TextureView
	SkyHemisphereMips TextureView
}

func NewDeferred() *Deferred {
	return &Deferred{
		DepthConstants: Vec4{0, 1 / 0.01, 0, 0},
		Unk10:          Vec4One, Unk20: Vec4One, Unk30: 1,
	}
}

var deferredDef = blockDef[Deferred]{name: "deferred", fields: []field[Deferred]{
	vecField(0x00, "depth_constants", false, func(b *Deferred) Vec4 { return b.DepthConstants }),
	vecField(0x10, "unk10", true, func(b *Deferred) Vec4 { return b.Unk10 }),
	vecField(0x20, "unk20", true, func(b *Deferred) Vec4 { return b.Unk20 }),
	f32Field(0x30, "unk30", true, func(b *Deferred) float32 { return b.Unk30 }),
	texField(0x38, "deferred_depth", false, func(b *Deferred) TextureView { return b.DeferredDepth }),
	texField(0x48, "deferred_rt0", false, func(b *Deferred) TextureView { return b.DeferredRt0 }),
	texField(0x50, "deferred_rt1", false, func(b *Deferred) TextureView { return b.DeferredRt1 }),
	texField(0x58, "deferred_rt2", false, func(b *Deferred) TextureView { return b.DeferredRt2 }),
	texField(0x60, "light_diffuse", false, func(b *Deferred) TextureView { return b.LightDiffuse }),
	texField(0x68, "light_specular", false, func(b *Deferred) TextureView { return b.LightSpecular }),
	texField(0x70, "light_ibl_specular", false, func(b *Deferred) TextureView { return b.LightIblSpecular }),
	texField(0x78, "unk78", true, func(b *Deferred) TextureView { return b.Unk78 }),
	texField(0x80, "unk80", true, func(b *Deferred) TextureView { return b.Unk80 }),
	texField(0x88, "unk88", true, func(b *Deferred) TextureView { return b.Unk88 }),
	texField(0x90, "unk90", true, func(b *Deferred) TextureView { return b.Unk90 }),
	texField(0x98, "sky_hemisphere_mips", false, func(b *Deferred) TextureView { return b.SkyHemisphereMips }),
}}

type DeferredLight struct {
	Unk40  Mat4
	Unk80  Mat4
	UnkC0  Vec4
	UnkD0  Vec4
	UnkE0  Vec4
	UnkF0  Vec4
	Unk100 Vec4
	Unk110 float32
	Unk114 float32
	Unk118 float32
	Unk11C float32
	Unk120 float32
}

func NewDeferredLight() *DeferredLight {
	return &DeferredLight{
		Unk40: Mat4Identity, Unk80: Mat4Identity,
		UnkC0: Vec4{0, 0, 0, 1}, UnkD0: Vec4{0, 0, 0, 1},
		UnkE0: Vec4{0, 0, 0, 1}, UnkF0: Vec4{0, 0, 0, 1},
		Unk100: Vec4One,
		Unk110: 1, Unk114: 7500, Unk118: 1, Unk11C: 1, Unk120: 1,
	}
}

var deferredLightDef = blockDef[DeferredLight]{name: "deferred_light", fields: []field[DeferredLight]{
	matField(0x40, "unk40", false, func(b *DeferredLight) Mat4 { return b.Unk40 }),
	matField(0x80, "unk80", true, func(b *DeferredLight) Mat4 { return b.Unk80 }),
	vecField(0xc0, "unkc0", true, func(b *DeferredLight) Vec4 { return b.UnkC0 }),
	vecField(0xd0, "unkd0", true, func(b *DeferredLight) Vec4 { return b.UnkD0 }),
	vecField(0xe0, "unke0", true, func(b *DeferredLight) Vec4 { return b.UnkE0 }),
	vecField(0xf0, "unkf0", true, func(b *DeferredLight) Vec4 { return b.UnkF0 }),
	vecField(0x100, "unk100", false, func(b *DeferredLight) Vec4 { return b.Unk100 }),
	f32Field(0x110, "unk110", true, func(b *DeferredLight) float32 { return b.Unk110 }),
	f32Field(0x114, "unk114", true, func(b *DeferredLight) float32 { return b.Unk114 }),
	f32Field(0x118, "unk118", true, func(b *DeferredLight) float32 { return b.Unk118 }),
	f32Field(0x11c, "unk11c", true, func(b *DeferredLight) float32 { return b.Unk11C }),
	f32Field(0x120, "unk120", true, func(b *DeferredLight) float32 { return b.Unk120 }),
}}

type DeferredShadow struct {
	Unk00            TextureView
	Unk08            TextureView
	Unk10            TextureView
	ResolutionWidth  float32
	ResolutionHeight float32
	Unk20            float32
	Unk28            TextureView
	Unk30            Vec4
	Unk40            Vec4
	Unk50            Vec4
	Unk80            Vec4
	Unk90            Vec4
	UnkA0            Vec4
	UnkB0            Vec4
	UnkC0            Mat4
	Unk100           Mat4
	Unk180           float32
}

func NewDeferredShadow() *DeferredShadow {
	return &DeferredShadow{
		ResolutionWidth: 1, ResolutionHeight: 1, Unk20: 1,
		Unk30: Vec4{1.5, 1, 1, 1}, Unk40: Vec4One, Unk50: Vec4One,
		Unk80: Vec4One, Unk90: Vec4One, UnkA0: Vec4One,
		UnkB0: Vec4{0, 0, 1, 1},
		UnkC0: Mat4Identity, Unk100: Mat4Identity, Unk180: 1,
	}
}

var deferredShadowDef = blockDef[DeferredShadow]{name: "deferred_shadow", fields: []field[DeferredShadow]{
	texField(0x00, "unk00", false, func(b *DeferredShadow) TextureView { return b.Unk00 }),
	texField(0x08, "unk08", true, func(b *DeferredShadow) TextureView { return b.Unk08 }),
	texField(0x10, "unk10", true, func(b *DeferredShadow) TextureView { return b.Unk10 }),
	f32Field(0x18, "resolution_width", false, func(b *DeferredShadow) float32 { return b.ResolutionWidth }),
	f32Field(0x1c, "resolution_height", false, func(b *DeferredShadow) float32 { return b.ResolutionHeight }),
	f32Field(0x20, "unk20", true, func(b *DeferredShadow) float32 { return b.Unk20 }),
	texField(0x28, "unk28", true, func(b *DeferredShadow) TextureView { return b.Unk28 }),
	vecField(0x30, "unk30", true, func(b *DeferredShadow) Vec4 { return b.Unk30 }),
	vecField(0x40, "unk40", true, func(b *DeferredShadow) Vec4 { return b.Unk40 }),
	vecField(0x50, "unk50", true, func(b *DeferredShadow) Vec4 { return b.Unk50 }),
	vecField(0x80, "unk80", true, func(b *DeferredShadow) Vec4 { return b.Unk80 }),
	vecField(0x90, "unk90", true, func(b *DeferredShadow) Vec4 { return b.Unk90 }),
	vecField(0xa0, "unka0", true, func(b *DeferredShadow) Vec4 { return b.UnkA0 }),
	vecField(0xb0, "unkb0", true, func(b *DeferredShadow) Vec4 { return b.UnkB0 }),
	matField(0xc0, "unkc0", false, func(b *DeferredShadow) Mat4 { return b.UnkC0 }),
	matField(0x100, "unk100", true, func(b *DeferredShadow) Mat4 { return b.Unk100 }),
	f32Field(0x180, "unk180", true, func(b *DeferredShadow) float32 { return b.Unk180 }),
}}

// Transparent exposes the atmosphere and volumetrics lookups used by
// transparent passes.
type Transparent struct {
	Unk00 TextureView
	Unk08 TextureView
	Unk10 TextureView
	Unk18 TextureView
	Unk20 TextureView
	Unk28 TextureView
	Unk30 TextureView
	Unk38 TextureView
	Unk40 TextureView
	Unk48 TextureView
	Unk50 TextureView
	Unk58 TextureView
	Unk60 TextureView
	Unk70 Vec4
	Unk80 Vec4
	Unk90 Vec4
	UnkA0 Vec4
	UnkB0 Vec4
}

func NewTransparent() *Transparent {
	return &Transparent{
		Unk70: Vec4One, Unk80: Vec4One, Unk90: Vec4One,
		UnkA0: Vec4One, UnkB0: Vec4One,
	}
}

var transparentDef = blockDef[Transparent]{name: "transparent", fields: []field[Transparent]{
	texField(0x00, "unk00", false, func(b *Transparent) TextureView { return b.Unk00 }),
	texField(0x08, "unk08", false, func(b *Transparent) TextureView { return b.Unk08 }),
	texField(0x10, "unk10", false, func(b *Transparent) TextureView { return b.Unk10 }),
	texField(0x18, "unk18", false, func(b *Transparent) TextureView { return b.Unk18 }),
	texField(0x20, "unk20", false, func(b *Transparent) TextureView { return b.Unk20 }),
	texField(0x28, "unk28", false, func(b *Transparent) TextureView { return b.Unk28 }),
	texField(0x30, "unk30", false, func(b *Transparent) TextureView { return b.Unk30 }),
	texField(0x38, "unk38", false, func(b *Transparent) TextureView { return b.Unk38 }),
	texField(0x40, "unk40", false, func(b *Transparent) TextureView { return b.Unk40 }),
	texField(0x48, "unk48", false, func(b *Transparent) TextureView { return b.Unk48 }),
	texField(0x50, "unk50", false, func(b *Transparent) TextureView { return b.Unk50 }),
	texField(0x58, "unk58", false, func(b *Transparent) TextureView { return b.Unk58 }),
	texField(0x60, "unk60", false, func(b *Transparent) TextureView { return b.Unk60 }),
	vecField(0x70, "unk70", true, func(b *Transparent) Vec4 { return b.Unk70 }),
	vecField(0x80, "unk80", true, func(b *Transparent) Vec4 { return b.Unk80 }),
	vecField(0x90, "unk90", true, func(b *Transparent) Vec4 { return b.Unk90 }),
	vecField(0xa0, "unka0", true, func(b *Transparent) Vec4 { return b.UnkA0 }),
	vecField(0xb0, "unkb0", true, func(b *Transparent) Vec4 { return b.UnkB0 }),
}}

type Atmosphere struct {
	Unk00                        TextureView
	Unk08                        TextureView
	Unk10                        TextureView
	Unk18                        TextureView
	Unk40                        TextureView
	Unk58                        TextureView
	TimeOfDayNormalized          float32
	Unk74                        float32
	Unk78                        float32
	Unk80                        TextureView
	Unk88                        TextureView
	Unk90                        Vec4
	LightShaftOpticalDepth       TextureView
	UnkC0                        TextureView
	UnkD0                        Vec4
	AtmosSsFarLookup             TextureView
	AtmosSsFarLookupDownsampled  TextureView
	AtmosSsNearLookup            TextureView
	AtmosSsNearLookupDownsampled TextureView
	Unk100                       TextureView
	Unk110                       Vec4
	FogColor                     Vec4
	Unk150                       float32
	Unk154                       float32
	FogIntensity                 float32
	Unk164                       float32
	Unk168                       float32
	Unk16C                       float32
	Unk170                       float32
	Unk180                       Vec4
	Unk190                       float32
	Unk194                       float32
	Unk198                       float32
	Unk1B4Rotation               float32
	Unk1B8Intensity              float32
	Unk1BC                       float32
	Unk1C0                       float32
	Unk1C4                       float32
	Unk1D0                       Vec4
	Unk1E0                       float32
	Unk1E4                       float32
	Unk1E8                       float32
	Unk1EC                       float32
	Unk1F8                       float32
	Unk1FC                       float32
	Unk208                       float32
	Unk210                       Vec4
}

func NewAtmosphere() *Atmosphere {
	return &Atmosphere{
		// 0 is midnight, 0.5 midday, 1 midnight again
		TimeOfDayNormalized: 0.5,
		Unk74:               1, Unk78: 1,
		Unk90: Vec4One, UnkD0: Vec4One,
		Unk110: Vec4{0, 0, -1.5, 0}, FogColor: Vec4One,
		Unk150: 1, Unk154: 1, FogIntensity: 1, Unk164: 1, Unk168: 1,
		Unk16C: 1, Unk170: 0.0001, Unk180: Vec4One, Unk190: 1, Unk194: 1,
		Unk198: 0.0001, Unk1B8Intensity: 1, Unk1BC: 0.5, Unk1C0: 1,
		Unk1C4: 1, Unk1D0: Vec4Zero, Unk1E0: 1, Unk1E4: 1, Unk1EC: 1,
		Unk1F8: 1, Unk1FC: 1, Unk208: 1, Unk210: Vec4One,
	}
}

var atmosphereDef = blockDef[Atmosphere]{name: "atmosphere", fields: []field[Atmosphere]{
	texField(0x00, "unk00", true, func(b *Atmosphere) TextureView { return b.Unk00 }),
	texField(0x08, "unk08", true, func(b *Atmosphere) TextureView { return b.Unk08 }),
	texField(0x10, "unk10", true, func(b *Atmosphere) TextureView { return b.Unk10 }),
	texField(0x18, "unk18", true, func(b *Atmosphere) TextureView { return b.Unk18 }),
	texField(0x40, "unk40", true, func(b *Atmosphere) TextureView { return b.Unk40 }),
	texField(0x58, "unk58", true, func(b *Atmosphere) TextureView { return b.Unk58 }),
	f32Field(0x70, "time_of_day_normalized", false, func(b *Atmosphere) float32 { return b.TimeOfDayNormalized }),
	f32Field(0x74, "unk74", true, func(b *Atmosphere) float32 { return b.Unk74 }),
	f32Field(0x78, "unk78", true, func(b *Atmosphere) float32 { return b.Unk78 }),
	texField(0x80, "unk80", true, func(b *Atmosphere) TextureView { return b.Unk80 }),
	texField(0x88, "unk88", true, func(b *Atmosphere) TextureView { return b.Unk88 }),
	vecField(0x90, "unk90", true, func(b *Atmosphere) Vec4 { return b.Unk90 }),
	texField(0xa0, "light_shaft_optical_depth", true, func(b *Atmosphere) TextureView { return b.LightShaftOpticalDepth }),
	texField(0xc0, "unkc0", true, func(b *Atmosphere) TextureView { return b.UnkC0 }),
	vecField(0xd0, "unkd0", true, func(b *Atmosphere) Vec4 { return b.UnkD0 }),
	texField(0xe0, "atmos_ss_far_lookup", false, func(b *Atmosphere) TextureView { return b.AtmosSsFarLookup }),
	texField(0xe8, "atmos_ss_far_lookup_downsampled", true, func(b *Atmosphere) TextureView { return b.AtmosSsFarLookupDownsampled }),
	texField(0xf0, "atmos_ss_near_lookup", false, func(b *Atmosphere) TextureView { return b.AtmosSsNearLookup }),
	texField(0xf8, "atmos_ss_near_lookup_downsampled", true, func(b *Atmosphere) TextureView { return b.AtmosSsNearLookupDownsampled }),
	texField(0x100, "unk100", true, func(b *Atmosphere) TextureView { return b.Unk100 }),
	vecField(0x110, "unk110", true, func(b *Atmosphere) Vec4 { return b.Unk110 }),
	vecField(0x140, "fog_color", true, func(b *Atmosphere) Vec4 { return b.FogColor }),
	f32Field(0x150, "unk150", true, func(b *Atmosphere) float32 { return b.Unk150 }),
	f32Field(0x154, "unk154", true, func(b *Atmosphere) float32 { return b.Unk154 }),
	f32Field(0x160, "fog_intensity", true, func(b *Atmosphere) float32 { return b.FogIntensity }),
	f32Field(0x164, "unk164", true, func(b *Atmosphere) float32 { return b.Unk164 }),
	f32Field(0x168, "unk168", true, func(b *Atmosphere) float32 { return b.Unk168 }),
	f32Field(0x16c, "unk16c", true, func(b *Atmosphere) float32 { return b.Unk16C }),
	f32Field(0x170, "unk170", true, func(b *Atmosphere) float32 { return b.Unk170 }),
	vecField(0x180, "unk180", true, func(b *Atmosphere) Vec4 { return b.Unk180 }),
	f32Field(0x190, "unk190", true, func(b *Atmosphere) float32 { return b.Unk190 }),
	f32Field(0x194, "unk194", true, func(b *Atmosphere) float32 { return b.Unk194 }),
	f32Field(0x198, "unk198", true, func(b *Atmosphere) float32 { return b.Unk198 }),
	f32Field(0x1b4, "unk1b4_rotation", true, func(b *Atmosphere) float32 { return b.Unk1B4Rotation }),
	f32Field(0x1b8, "unk1b8_intensity", true, func(b *Atmosphere) float32 { return b.Unk1B8Intensity }),
	f32Field(0x1bc, "unk1bc", true, func(b *Atmosphere) float32 { return b.Unk1BC }),
	f32Field(0x1c0, "unk1c0", true, func(b *Atmosphere) float32 { return b.Unk1C0 }),
	f32Field(0x1c4, "unk1c4", true, func(b *Atmosphere) float32 { return b.Unk1C4 }),
	vecField(0x1d0, "unk1d0", true, func(b *Atmosphere) Vec4 { return b.Unk1D0 }),
	f32Field(0x1e0, "unk1e0", true, func(b *Atmosphere) float32 { return b.Unk1E0 }),
	f32Field(0x1e4, "unk1e4", true, func(b *Atmosphere) float32 { return b.Unk1E4 }),
	f32Field(0x1e8, "unk1e8", true, func(b *Atmosphere) float32 { return b.Unk1E8 }),
	f32Field(0x1ec, "unk1ec", true, func(b *Atmosphere) float32 { return b.Unk1EC }),
	f32Field(0x1f8, "unk1f8", true, func(b *Atmosphere) float32 { return b.Unk1F8 }),
	f32Field(0x1fc, "unk1fc", true, func(b *Atmosphere) float32 { return b.Unk1FC }),
	f32Field(0x208, "unk208", true, func(b *Atmosphere) float32 { return b.Unk208 }),
	vecField(0x210, "unk210", true, func(b *Atmosphere) Vec4 { return b.Unk210 }),
}}

type Water struct {
	Unk00 TextureView
	Unk08 TextureView
	Unk18 TextureView
	Unk28 TextureView
	Unk30 TextureView
	Unk40 Vec4
	Unk50 Vec4
	Unk70 float32
}

func NewWater() *Water {
	return &Water{Unk40: Vec4One, Unk50: Vec4One, Unk70: 1}
}

var waterDef = blockDef[Water]{name: "water", fields: []field[Water]{
	texField(0x00, "unk00", true, func(b *Water) TextureView { return b.Unk00 }),
	texField(0x08, "unk08", true, func(b *Water) TextureView { return b.Unk08 }),
	texField(0x18, "unk18", true, func(b *Water) TextureView { return b.Unk18 }),
	texField(0x28, "unk28", true, func(b *Water) TextureView { return b.Unk28 }),
	texField(0x30, "unk30", true, func(b *Water) TextureView { return b.Unk30 }),
	vecField(0x40, "unk40", true, func(b *Water) Vec4 { return b.Unk40 }),
	vecField(0x50, "unk50", true, func(b *Water) Vec4 { return b.Unk50 }),
	f32Field(0x70, "unk70", true, func(b *Water) float32 { return b.Unk70 }),
}}

type SimpleGeometry struct {
	Transform Mat4
}

func NewSimpleGeometry() *SimpleGeometry {
	return &SimpleGeometry{Transform: Mat4Identity}
}

var simpleGeometryDef = blockDef[SimpleGeometry]{name: "simple_geometry", fields: []field[SimpleGeometry]{
	matField(0x00, "transform", false, func(b *SimpleGeometry) Mat4 { return b.Transform }),
}}

type Cubemaps struct {
	TempAo TextureView
}

var cubemapsDef = blockDef[Cubemaps]{name: "cubemaps", fields: []field[Cubemaps]{
	texField(0x00, "temp_ao", true, func(b *Cubemaps) TextureView { return b.TempAo }),
}}

type Decal struct {
	Unk00 TextureView
	Unk08 TextureView // rt1 copy
	Unk10 Vec4
	Unk20 Vec4
}

func NewDecal() *Decal {
	return &Decal{Unk10: Vec4One, Unk20: Vec4One}
}

var decalDef = blockDef[Decal]{name: "decal", fields: []field[Decal]{
	texField(0x00, "unk00", true, func(b *Decal) TextureView { return b.Unk00 }),
	texField(0x08, "unk08", false, func(b *Decal) TextureView { return b.Unk08 }),
	vecField(0x10, "unk10", true, func(b *Decal) Vec4 { return b.Unk10 }),
	vecField(0x20, "unk20", true, func(b *Decal) Vec4 { return b.Unk20 }),
}}

// RigidModel carries the per-object transform for rigid geometry.
type RigidModel struct {
	MeshToWorld          Mat4
	PositionScale        Vec4
	PositionOffset       Vec4
	Texcoord0ScaleOffset Vec4
	DynamicShAoValues    Vec4
}

func NewRigidModel() *RigidModel {
	return &RigidModel{
		MeshToWorld:   Mat4Identity,
		PositionScale: Vec4One, PositionOffset: Vec4One,
		Texcoord0ScaleOffset: Vec4One, DynamicShAoValues: Vec4One,
	}
}

var rigidModelDef = blockDef[RigidModel]{name: "rigid_model", fields: []field[RigidModel]{
	matField(0x00, "mesh_to_world", false, func(b *RigidModel) Mat4 { return b.MeshToWorld }),
	vecField(0x40, "position_scale", false, func(b *RigidModel) Vec4 { return b.PositionScale }),
	vecField(0x50, "position_offset", false, func(b *RigidModel) Vec4 { return b.PositionOffset }),
	vecField(0x60, "texcoord0_scale_offset", false, func(b *RigidModel) Vec4 { return b.Texcoord0ScaleOffset }),
	vecField(0x70, "dynamic_sh_ao_values", false, func(b *RigidModel) Vec4 { return b.DynamicShAoValues }),
}}

type Hdao struct {
	Unk00 Vec4
	Unk10 Vec4
	Unk20 Vec4
	Unk30 Vec4
	Unk40 Vec4
	Unk50 Vec4
	Unk60 TextureView
	Unk68 TextureView
	Unk70 Vec4
	Unk80 Vec4
	Unk90 Vec4
}

func NewHdao() *Hdao {
	depth := Vec4{0, 1 / 0.01, 0, 0}
	return &Hdao{
		Unk00: depth, Unk10: depth, Unk20: Vec4One, Unk30: Vec4One,
		Unk40: depth, Unk50: Vec4One, Unk70: Vec4One, Unk80: Vec4One,
		Unk90: depth,
	}
}

var hdaoDef = blockDef[Hdao]{name: "hdao", fields: []field[Hdao]{
	vecField(0x00, "unk00", true, func(b *Hdao) Vec4 { return b.Unk00 }),
	vecField(0x10, "unk10", true, func(b *Hdao) Vec4 { return b.Unk10 }),
	vecField(0x20, "unk20", true, func(b *Hdao) Vec4 { return b.Unk20 }),
	vecField(0x30, "unk30", true, func(b *Hdao) Vec4 { return b.Unk30 }),
	vecField(0x40, "unk40", true, func(b *Hdao) Vec4 { return b.Unk40 }),
	vecField(0x50, "unk50", true, func(b *Hdao) Vec4 { return b.Unk50 }),
	texField(0x60, "unk60", false, func(b *Hdao) TextureView { return b.Unk60 }),
	texField(0x68, "unk68", false, func(b *Hdao) TextureView { return b.Unk68 }),
	vecField(0x70, "unk70", true, func(b *Hdao) Vec4 { return b.Unk70 }),
	vecField(0x80, "unk80", true, func(b *Hdao) Vec4 { return b.Unk80 }),
	vecField(0x90, "unk90", true, func(b *Hdao) Vec4 { return b.Unk90 }),
}}

type GlobalLighting struct {
	Unk08 TextureView
	Unk10 Vec4
	// Specular light direction, as a 3 dimensional vector
	Unk30 Vec4
	// Diffuse light direction, as a 3 dimensional vector
	Unk50 Vec4
	Unk70 Vec4
	Unk80 Vec4
	Unk90 float32
	Unk94 float32
	Unk98 float32
	Unk9C float32
	UnkA0 float32
	UnkB0 Vec4
	UnkC0 Vec4
	UnkD0 Vec4
}

func NewGlobalLighting() *GlobalLighting {
	return &GlobalLighting{
		Unk10: Vec4One,
		Unk30: Vec4{1, -1, 1, 0}, Unk50: Vec4{1, -1, 1, 0},
		Unk70: Vec4One, Unk80: Vec4One,
		Unk90: 1, Unk94: -0.5, Unk98: 1, Unk9C: 1, UnkA0: 1,
		UnkB0: Vec4One, UnkC0: Vec4One, UnkD0: Vec4One,
	}
}

var globalLightingDef = blockDef[GlobalLighting]{name: "global_lighting", fields: []field[GlobalLighting]{
	texField(0x08, "unk08", true, func(b *GlobalLighting) TextureView { return b.Unk08 }),
	vecField(0x10, "unk10", true, func(b *GlobalLighting) Vec4 { return b.Unk10 }),
	vecField(0x30, "unk30", true, func(b *GlobalLighting) Vec4 { return b.Unk30 }),
	vecField(0x50, "unk50", true, func(b *GlobalLighting) Vec4 { return b.Unk50 }),
	vecField(0x70, "unk70", true, func(b *GlobalLighting) Vec4 { return b.Unk70 }),
	vecField(0x80, "unk80", true, func(b *GlobalLighting) Vec4 { return b.Unk80 }),
	f32Field(0x90, "unk90", true, func(b *GlobalLighting) float32 { return b.Unk90 }),
	f32Field(0x94, "unk94", true, func(b *GlobalLighting) float32 { return b.Unk94 }),
	f32Field(0x98, "unk98", true, func(b *GlobalLighting) float32 { return b.Unk98 }),
	f32Field(0x9c, "unk9c", true, func(b *GlobalLighting) float32 { return b.Unk9C }),
	f32Field(0xa0, "unka0", true, func(b *GlobalLighting) float32 { return b.UnkA0 }),
	vecField(0xb0, "unkb0", true, func(b *GlobalLighting) Vec4 { return b.UnkB0 }),
	vecField(0xc0, "unkc0", true, func(b *GlobalLighting) Vec4 { return b.UnkC0 }),
	vecField(0xd0, "unkd0", true, func(b *GlobalLighting) Vec4 { return b.UnkD0 }),
}}

type SpeedtreePlacements struct {
	Unk00 Vec4
	Unk10 Vec4
	Unk20 Vec4
	Unk30 Vec4
	Unk40 Vec4
	Unk50 Vec4
	Unk60 Vec4
	Unk70 Vec4
}

func NewSpeedtreePlacements() *SpeedtreePlacements {
	return &SpeedtreePlacements{
		Unk00: Vec4Zero, Unk10: Vec4{0, 0, 0, 1},
		Unk20: Vec4One, Unk30: Vec4One, Unk40: Vec4One,
		Unk50: Vec4One, Unk60: Vec4One,
		// zero keeps decorator color, one washes it out to white
		Unk70: Vec4Zero,
	}
}

var speedtreePlacementsDef = blockDef[SpeedtreePlacements]{name: "speedtree_placements", fields: []field[SpeedtreePlacements]{
	vecField(0x00, "unk00", true, func(b *SpeedtreePlacements) Vec4 { return b.Unk00 }),
	vecField(0x10, "unk10", true, func(b *SpeedtreePlacements) Vec4 { return b.Unk10 }),
	vecField(0x20, "unk20", true, func(b *SpeedtreePlacements) Vec4 { return b.Unk20 }),
	vecField(0x30, "unk30", true, func(b *SpeedtreePlacements) Vec4 { return b.Unk30 }),
	vecField(0x40, "unk40", true, func(b *SpeedtreePlacements) Vec4 { return b.Unk40 }),
	vecField(0x50, "unk50", true, func(b *SpeedtreePlacements) Vec4 { return b.Unk50 }),
	vecField(0x60, "unk60", true, func(b *SpeedtreePlacements) Vec4 { return b.Unk60 }),
	vecField(0x70, "unk70", true, func(b *SpeedtreePlacements) Vec4 { return b.Unk70 }),
}}

type DecoratorWind struct {
	Unk00 Vec4
}

var decoratorWindDef = blockDef[DecoratorWind]{name: "decorator_wind", fields: []field[DecoratorWind]{
	vecField(0x00, "unk00", true, func(b *DecoratorWind) Vec4 { return b.Unk00 }),
}}

type Postprocess struct {
	Unk00  TextureView
	Unk08  TextureView
	Unk10  TextureView
	Unk18  TextureView
	Unk20  TextureView
	Unk28  TextureView
	Unk30  UnorderedAccessView
	Unk38  UnorderedAccessView
	Unk40  UnorderedAccessView
	Unk48  UnorderedAccessView
	Unk50  Vec4
	Unk60  Vec4
	Unk80  Vec4
	UnkC0  Vec4
	UnkD0  Vec4
	UnkE0  Vec4
	UnkF0  Vec4
	Unk100 Vec4
	Unk110 Vec4
	Unk130 Vec4
}

func NewPostprocess() *Postprocess {
	return &Postprocess{
		Unk50: Vec4One, Unk60: Vec4One, Unk80: Vec4One,
		UnkC0: Vec4One, UnkD0: Vec4One, UnkE0: Vec4One, UnkF0: Vec4One,
		Unk100: Vec4One, Unk110: Vec4One, Unk130: Vec4One,
	}
}

var postprocessDef = blockDef[Postprocess]{name: "postprocess", fields: []field[Postprocess]{
	texField(0x00, "unk00", false, func(b *Postprocess) TextureView { return b.Unk00 }),
	texField(0x08, "unk08", false, func(b *Postprocess) TextureView { return b.Unk08 }),
	texField(0x10, "unk10", false, func(b *Postprocess) TextureView { return b.Unk10 }),
	texField(0x18, "unk18", false, func(b *Postprocess) TextureView { return b.Unk18 }),
	texField(0x20, "unk20", false, func(b *Postprocess) TextureView { return b.Unk20 }),
	texField(0x28, "unk28", false, func(b *Postprocess) TextureView { return b.Unk28 }),
	texField(0x30, "unk30", false, func(b *Postprocess) TextureView { return b.Unk30 }),
	texField(0x38, "unk38", false, func(b *Postprocess) TextureView { return b.Unk38 }),
	texField(0x40, "unk40", false, func(b *Postprocess) TextureView { return b.Unk40 }),
	texField(0x48, "unk48", false, func(b *Postprocess) TextureView { return b.Unk48 }),
	vecField(0x50, "unk50", false, func(b *Postprocess) Vec4 { return b.Unk50 }),
	vecField(0x60, "unk60", false, func(b *Postprocess) Vec4 { return b.Unk60 }),
	vecField(0x80, "unk80", false, func(b *Postprocess) Vec4 { return b.Unk80 }),
	vecField(0xc0, "unkc0", false, func(b *Postprocess) Vec4 { return b.UnkC0 }),
	vecField(0xd0, "unkd0", false, func(b *Postprocess) Vec4 { return b.UnkD0 }),
	vecField(0xe0, "unke0", false, func(b *Postprocess) Vec4 { return b.UnkE0 }),
	vecField(0xf0, "unkf0", false, func(b *Postprocess) Vec4 { return b.UnkF0 }),
	vecField(0x100, "unk100", false, func(b *Postprocess) Vec4 { return b.Unk100 }),
	vecField(0x110, "unk110", false, func(b *Postprocess) Vec4 { return b.Unk110 }),
	vecField(0x130, "unk130", false, func(b *Postprocess) Vec4 { return b.Unk130 }),
}}

type ShadowMask struct {
	Unk00 TextureView
	Unk08 TextureView
	Unk10 TextureView
	Unk20 Vec4
	Unk30 float32
	Unk34 float32
}

func NewShadowMask() *ShadowMask {
	return &ShadowMask{Unk20: Vec4One, Unk30: 1, Unk34: 1}
}

var shadowMaskDef = blockDef[ShadowMask]{name: "shadowmask", fields: []field[ShadowMask]{
	texField(0x00, "unk00", false, func(b *ShadowMask) TextureView { return b.Unk00 }),
	texField(0x08, "unk08", false, func(b *ShadowMask) TextureView { return b.Unk08 }),
	texField(0x10, "unk10", false, func(b *ShadowMask) TextureView { return b.Unk10 }),
	vecField(0x20, "unk20", false, func(b *ShadowMask) Vec4 { return b.Unk20 }),
	f32Field(0x30, "unk30", false, func(b *ShadowMask) float32 { return b.Unk30 }),
	f32Field(0x34, "unk34", false, func(b *ShadowMask) float32 { return b.Unk34 }),
}}
