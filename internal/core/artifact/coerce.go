// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artifact

import (
	"encoding/hex"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/taibuivan/relic/pkg/pointer"
)

// # Field Coercion
//
// Provider payloads are loosely typed: the same field may arrive as a number,
// a numeric string, null or garbage. Coercion never fails; anything unusable
// becomes nil.

// CoerceInt converts a decoded JSON value to an integer.
//
// Numbers are truncated toward zero, strings are trimmed and parsed base-10.
// Booleans, arrays, objects and non-finite numbers yield nil.
func CoerceInt(value any) *int64 {
	switch v := value.(type) {
	case nil, bool:
		return nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &n
		}
		if f, err := v.Float64(); err == nil {
			return truncate(f)
		}
		return nil
	case float64:
		return truncate(v)
	case float32:
		return truncate(float64(v))
	case int:
		return pointer.To(int64(v))
	case int32:
		return pointer.To(int64(v))
	case int64:
		return pointer.To(v)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return &n
		}
		return nil
	}
	return nil
}

// CoerceFloat converts a decoded JSON value to a finite real number.
func CoerceFloat(value any) *float64 {
	var f float64

	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// CoerceString converts a decoded JSON value to text.
//
// Strings pass through unchanged, numbers and booleans are formatted, and
// arrays or objects are rendered as compact JSON.
func CoerceString(value any) *string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return &v
	case json.Number:
		return pointer.To(v.String())
	case bool:
		return pointer.To(strconv.FormatBool(v))
	case float64:
		return pointer.To(strconv.FormatFloat(v, 'f', -1, 64))
	case int:
		return pointer.To(strconv.Itoa(v))
	case int64:
		return pointer.To(strconv.FormatInt(v, 10))
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return pointer.To(string(encoded))
}

func truncate(f float64) *int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	return pointer.To(int64(f))
}

// # Hue Classification

// Hue names produced by [ClassifyHue].
const (
	HueGrey   = "Grey"
	HueRed    = "Red"
	HueOrange = "Orange"
	HueGreen  = "Green"
	HueBlue   = "Blue"
)

// redDominance is how far red must exceed the next channel to count as Red.
const redDominance = 10

// ClassifyHue buckets a #RRGGBB colour into a coarse hue name.
//
// It returns nil for nil input, fewer than six hex digits after the leading '#',
// or undecodable digits.
func ClassifyHue(hexColor *string) *string {
	if hexColor == nil {
		return nil
	}

	digits := strings.TrimLeft(strings.TrimSpace(*hexColor), "#")
	if len(digits) < 6 {
		return nil
	}

	rgb, err := hex.DecodeString(digits[:6])
	if err != nil {
		return nil
	}
	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])

	switch {
	case r == g && g == b:
		return pointer.To(HueGrey)
	case r >= g && r >= b:
		if r-max(g, b) > redDominance {
			return pointer.To(HueRed)
		}
		return pointer.To(HueOrange)
	case g >= r && g >= b:
		return pointer.To(HueGreen)
	default:
		return pointer.To(HueBlue)
	}
}
