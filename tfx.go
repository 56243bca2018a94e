// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

// Package tfx decodes, evaluates and decompiles the expression bytecode that
// drives shader parameters: per-frame programs compute constant buffer
// vectors and bind textures and samplers from structured renderer state.
package tfx
