// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package tfx

// NumGlobalChannels is the fixed size of the global parameter table.
const NumGlobalChannels = 256

// ChannelKind describes how tooling should present a channel's value. The
// evaluator itself always reads the full vector.
type ChannelKind uint8

const (
	// ChannelVec4 is a plain 4-component value.
	ChannelVec4 ChannelKind = iota
	// ChannelFloat uses only the first component.
	ChannelFloat
	// ChannelColor is a linear color; alpha usage differs per channel.
	ChannelColor
)

// GlobalChannel is one artist-tunable slot of the global parameter table:
// a named, typed, independently defaulted value. Unnamed channels default to
// an all-ones vector.
type GlobalChannel struct {
	Name  string
	Kind  ChannelKind
	Value Vec4
}

// GlobalChannelDefaults returns the global parameter table populated with
// the known channel names and default values. Unidentified slots stay at the
// all-ones default.
func GlobalChannelDefaults() [NumGlobalChannels]GlobalChannel {
	var ch [NumGlobalChannels]GlobalChannel
	for i := range ch {
		ch[i] = GlobalChannel{Kind: ChannelVec4, Value: Vec4One}
	}

	ch[10].Value = Vec4Zero
	ch[97].Value = Vec4Zero

	ch[27] = GlobalChannel{Name: "global specular intensity", Kind: ChannelFloat, Value: Vec4One}
	ch[28] = GlobalChannel{Name: "global specular tint", Kind: ChannelColor, Value: Vec4One}

	ch[31] = GlobalChannel{Name: "global diffuse direct tint", Kind: ChannelColor, Value: Vec4One}
	ch[32] = GlobalChannel{Name: "global diffuse direct intensity", Kind: ChannelFloat, Value: Vec4One}
	ch[33] = GlobalChannel{Name: "global diffuse penumbra tint", Kind: ChannelColor, Value: Vec4One}
	ch[34] = GlobalChannel{Name: "global diffuse penumbra intensity", Kind: ChannelFloat, Value: Vec4One}

	ch[37] = GlobalChannel{Name: "fog start", Kind: ChannelFloat, Value: Vec4{50, 0, 0, 0}}
	ch[41] = GlobalChannel{Name: "fog falloff", Kind: ChannelFloat, Value: Vec4{50, 0, 0, 0}}

	ch[75] = GlobalChannel{Name: "unk75 (dark/light blend)", Kind: ChannelFloat, Value: Vec4Zero}
	ch[76] = GlobalChannel{Name: "unk76 (dark/light blend, cancels out unk75)", Kind: ChannelFloat, Value: Vec4Zero}

	// Sun related
	ch[82].Value = Vec4Zero
	ch[83].Value = Vec4Zero
	ch[98].Value = Vec4Zero
	ch[100].Value = Vec4Zero

	ch[84] = GlobalChannel{Name: "ao intensity", Kind: ChannelFloat, Value: Vec4One}

	ch[93].Value = Vec4{1, 0, 0, 0}
	ch[113].Value = Vec4Zero
	ch[127].Value = Vec4Zero

	// No single value works everywhere; this one suits line lights.
	ch[131].Value = Vec4{0.5, 0.5, 0.3, 0}

	return ch
}

// ObjectChannels carries per-object channel vectors keyed by name hash. A
// missing hash reads as zero.
type ObjectChannels struct {
	Values map[uint32]Vec4
}

// Get returns the channel vector for hash, or zero when absent.
func (c *ObjectChannels) Get(hash uint32) (Vec4, bool) {
	if c == nil {
		return Vec4Zero, false
	}
	v, ok := c.Values[hash]
	if !ok {
		return Vec4Zero, false
	}
	return v, true
}
