// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ArtifactMetadataTable represents the 'artifact_metadata' table
type ArtifactMetadataTable struct {
	Table           string
	ID              string
	Title           string
	Culture         string
	Period          string
	Century         string
	Medium          string
	Dimensions      string
	Description     string
	Department      string
	Classification  string
	AccessionYear   string
	AccessionMethod string
}

// ArtifactMetadata is the schema definition for artifact_metadata
var ArtifactMetadata = ArtifactMetadataTable{
	Table:           "artifact_metadata",
	ID:              "id",
	Title:           "title",
	Culture:         "culture",
	Period:          "period",
	Century:         "century",
	Medium:          "medium",
	Dimensions:      "dimensions",
	Description:     "description",
	Department:      "department",
	Classification:  "classification",
	AccessionYear:   "accessionyear",
	AccessionMethod: "accessionmethod",
}

func (t ArtifactMetadataTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Culture, t.Period, t.Century, t.Medium,
		t.Dimensions, t.Description, t.Department, t.Classification,
		t.AccessionYear, t.AccessionMethod,
	}
}
