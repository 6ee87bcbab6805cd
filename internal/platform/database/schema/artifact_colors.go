// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ArtifactColorsTable represents the 'artifact_colors' table
type ArtifactColorsTable struct {
	Table    string
	ObjectID string
	Color    string
	Spectrum string
	Hue      string
	Percent  string
	CSS3     string
}

// ArtifactColors is the schema definition for artifact_colors
var ArtifactColors = ArtifactColorsTable{
	Table:    "artifact_colors",
	ObjectID: "objectid",
	Color:    "color",
	Spectrum: "spectrum",
	Hue:      "hue",
	Percent:  "percent",
	CSS3:     "css3",
}

func (t ArtifactColorsTable) Columns() []string {
	return []string{t.ObjectID, t.Color, t.Spectrum, t.Hue, t.Percent, t.CSS3}
}
