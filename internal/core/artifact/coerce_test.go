// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/core/artifact"
	"github.com/taibuivan/relic/pkg/pointer"
)

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *int64
	}{
		{"nil", nil, nil},
		{"json integer", json.Number("1234567890123"), pointer.To(int64(1234567890123))},
		{"json real truncates", json.Number("1999.9"), pointer.To(int64(1999))},
		{"negative real truncates toward zero", -3.7, pointer.To(int64(-3))},
		{"plain int", 42, pointer.To(int64(42))},
		{"numeric string", " 1850 ", pointer.To(int64(1850))},
		{"zero", json.Number("0"), pointer.To(int64(0))},
		{"garbage string", "circa 1850", nil},
		{"empty string", "", nil},
		{"bool", true, nil},
		{"array", []any{1}, nil},
		{"object", map[string]any{"year": 1}, nil},
		{"infinity", math.Inf(1), nil},
		{"nan", math.NaN(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, artifact.CoerceInt(tt.input))
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *float64
	}{
		{"nil", nil, nil},
		{"json number", json.Number("0.25"), pointer.To(0.25)},
		{"string", "0.5", pointer.To(0.5)},
		{"int", 2, pointer.To(2.0)},
		{"garbage", "lots", nil},
		{"nan string", "NaN", nil},
		{"inf", math.Inf(-1), nil},
		{"bool", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, artifact.CoerceFloat(tt.input))
		})
	}
}

func TestCoerceString(t *testing.T) {
	assert.Nil(t, artifact.CoerceString(nil))
	assert.Equal(t, "Byzantine", *artifact.CoerceString("Byzantine"))
	assert.Equal(t, "1850", *artifact.CoerceString(json.Number("1850")))
	assert.Equal(t, "true", *artifact.CoerceString(true))
	assert.Equal(t, `["a","b"]`, *artifact.CoerceString([]any{"a", "b"}))
}

func TestClassifyHue(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  *string
	}{
		{"nil", nil, nil},
		{"too short", pointer.To("#fff"), nil},
		{"undecodable", pointer.To("#zzzzzz"), nil},
		{"grey", pointer.To("#7f7f7f"), pointer.To(artifact.HueGrey)},
		{"black is grey", pointer.To("000000"), pointer.To(artifact.HueGrey)},
		{"dominant red", pointer.To("#c81e1e"), pointer.To(artifact.HueRed)},
		{"red barely ahead is orange", pointer.To("#c8c01e"), pointer.To(artifact.HueOrange)},
		{"red and green tie is orange", pointer.To("#c8c800"), pointer.To(artifact.HueOrange)},
		{"red lead of 10 is orange", pointer.To("#8c8200"), pointer.To(artifact.HueOrange)},
		{"red lead of 11 is red", pointer.To("#8d8200"), pointer.To(artifact.HueRed)},
		{"red lead of 10 over blue is orange", pointer.To("#8c0082"), pointer.To(artifact.HueOrange)},
		{"green", pointer.To("#1ec81e"), pointer.To(artifact.HueGreen)},
		{"blue", pointer.To("#1e1ec8"), pointer.To(artifact.HueBlue)},
		{"multiple hashes", pointer.To("##1e1ec8"), pointer.To(artifact.HueBlue)},
		{"extra digits ignored", pointer.To("#1e1ec8ff"), pointer.To(artifact.HueBlue)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := artifact.ClassifyHue(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}
