// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ArtifactMediaTable represents the 'artifact_media' table
type ArtifactMediaTable struct {
	Table      string
	ObjectID   string
	ImageCount string
	MediaCount string
	ColorCount string
	Rank       string
	DateBegin  string
	DateEnd    string
}

// ArtifactMedia is the schema definition for artifact_media
var ArtifactMedia = ArtifactMediaTable{
	Table:      "artifact_media",
	ObjectID:   "objectid",
	ImageCount: "imagecount",
	MediaCount: "mediacount",
	ColorCount: "colorcount",
	Rank:       "rank",
	DateBegin:  "datebegin",
	DateEnd:    "dateend",
}

func (t ArtifactMediaTable) Columns() []string {
	return []string{t.ObjectID, t.ImageCount, t.MediaCount, t.ColorCount, t.Rank, t.DateBegin, t.DateEnd}
}
