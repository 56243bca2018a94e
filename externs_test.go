// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExternString(t *testing.T) {
	require.Equal(t, "Frame", ExternFrame.String())
	require.Equal(t, "DeferredShadow", ExternDeferredShadow.String())
	require.True(t, ExternFrame.IsValid())
	require.False(t, Extern(0xfe).IsValid())
}

func TestResolveFrameFields(t *testing.T) {
	s := NewStorage()
	s.Frame.GameTime = 12.5
	s.Frame.Unk1C0 = Vec4{2, 3, 4, 5}

	v, err := s.Resolve(ExternFrame, 0x00, KindFloat)
	require.NoError(t, err)
	require.Equal(t, float32(12.5), v.F)

	v, err = s.Resolve(ExternFrame, 0x1c0, KindVec4)
	require.NoError(t, err)
	require.Equal(t, Vec4{2, 3, 4, 5}, v.Vec)

	require.Zero(t, s.Diags().Len())
}

func TestResolveViewFields(t *testing.T) {
	s := NewStorage()
	s.View = NewView()
	s.View.ResolutionWidth = 1920
	s.View.ResolutionHeight = 1080
	s.View.WorldToProjective = Mat4{{2, 0, 0, 0}, {0, 2, 0, 0}, {0, 0, 2, 0}, {0, 0, 0, 2}}

	require.Equal(t, float32(1920), s.Float(ExternView, 0x00))
	require.Equal(t, float32(1080), s.Float(ExternView, 0x04))

	m, err := s.Resolve(ExternView, 0x140, KindMat4)
	require.NoError(t, err)
	require.Equal(t, s.View.WorldToProjective, m.Mat)
}

func TestResolveUnimplementedField(t *testing.T) {
	s := NewStorage()
	s.Frame.DeltaGameTime = 0.016

	// the value comes through, but the read is flagged
	v, err := s.Resolve(ExternFrame, 0x14, KindFloat)
	require.NoError(t, err)
	require.Equal(t, float32(0.016), v.F)

	diags := s.Diags().Snapshot()
	require.Len(t, diags, 1)
	require.Equal(t, DiagUnimplementedField, diags[0].Kind)
	require.Contains(t, diags[0].Message, "Frame@0x14")
}

func TestResolveTypeMismatch(t *testing.T) {
	s := NewStorage()

	// game_time declared float, asked for as a vector
	v, err := s.Resolve(ExternFrame, 0x00, KindVec4)
	require.Error(t, err)
	require.Equal(t, Vec4One, v.Vec) // kind default

	diags := s.Diags().Snapshot()
	require.Len(t, diags, 1)
	require.Equal(t, DiagInvalidType, diags[0].Kind)
}

func TestResolveFieldNotFound(t *testing.T) {
	s := NewStorage()

	v, err := s.Resolve(ExternFrame, 0x3c, KindFloat)
	require.Error(t, err)
	require.Equal(t, float32(1), v.F)

	diags := s.Diags().Snapshot()
	require.Len(t, diags, 1)
	require.Equal(t, DiagFieldNotFound, diags[0].Kind)
}

func TestResolveExternNotSet(t *testing.T) {
	s := NewStorage()

	_, err := s.Resolve(ExternView, 0x00, KindFloat)
	require.Error(t, err)

	diags := s.Diags().Snapshot()
	require.Len(t, diags, 1)
	require.Equal(t, DiagExternNotSet, diags[0].Kind)

	// degraded accessors still return usable defaults
	require.Equal(t, float32(1), s.Float(ExternView, 0x00))
	require.Equal(t, Mat4Identity, s.Mat4(ExternView, 0x40))
}

func TestResolveExternNotFound(t *testing.T) {
	s := NewStorage()

	_, err := s.Resolve(ExternParticle, 0x00, KindFloat)
	require.Error(t, err)

	diags := s.Diags().Snapshot()
	require.Len(t, diags, 1)
	require.Equal(t, DiagExternNotFound, diags[0].Kind)
}

func TestResolveDiagnosticsDedupe(t *testing.T) {
	s := NewStorage()
	for i := 0; i < 5; i++ {
		_, _ = s.Resolve(ExternView, 0x00, KindFloat)
	}
	diags := s.Diags().Snapshot()
	require.Len(t, diags, 1)
	require.Equal(t, 5, diags[0].Count)

	s.Diags().Reset()
	require.Zero(t, s.Diags().Len())
}

func TestResolveTextureField(t *testing.T) {
	s := NewStorage()
	res := &struct{}{}
	s.Frame.IridescenceLookup = TextureView{Resource: res}

	v, err := s.Resolve(ExternFrame, 0xc0, KindTexture)
	require.NoError(t, err)
	require.Equal(t, any(res), v.Tex.Resource)

	// texture defaults are the null view
	require.True(t, s.Texture(ExternView, 0x00).IsNull())
}

func TestDecoratorWindDefault(t *testing.T) {
	s := NewStorage()
	require.NotNil(t, s.DecoratorWind)
	require.Equal(t, Vec4{0, 0, 0, 0.01}, s.Vec4(ExternDecoratorWind, 0x00))
}

func TestFieldPath(t *testing.T) {
	path, ok := FieldPath(ExternFrame, 0x00)
	require.True(t, ok)
	require.Equal(t, "frame->game_time", path)

	path, ok = FieldPath(ExternView, 0x40)
	require.True(t, ok)
	require.Equal(t, "view->world_to_camera", path)

	_, ok = FieldPath(ExternFrame, 0x3c)
	require.False(t, ok)

	_, ok = FieldPath(ExternParticle, 0x00)
	require.False(t, ok)
}

func TestGlobalChannelDefaults(t *testing.T) {
	ch := GlobalChannelDefaults()
	require.Equal(t, Vec4One, ch[0].Value)
	require.Equal(t, Vec4Zero, ch[10].Value)
	require.Equal(t, "fog start", ch[37].Name)
	require.Equal(t, Vec4{50, 0, 0, 0}, ch[37].Value)
	require.Equal(t, ChannelFloat, ch[37].Kind)
	require.Equal(t, Vec4{0.5, 0.5, 0.3, 0}, ch[131].Value)
}
