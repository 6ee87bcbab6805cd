// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ingest orchestrates a harvest from fetch to commit.

A harvest is split in two steps so an operator can inspect what came back from
the provider before anything is written:

 1. Harvest fetches a batch and stages it under a batch ID.
 2. Persist normalizes the staged batch and commits it to the artifact store.

Staged batches live in a [Store] (Redis or process memory) and expire after a
TTL. When an archive is configured the raw batch is also written there, which
allows [Service.Replay] to stage it again long after it expired.
*/
package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/relic/internal/core/artifact"
	"github.com/taibuivan/relic/internal/core/harvest"
	"github.com/taibuivan/relic/internal/platform/constants"
	"github.com/taibuivan/relic/internal/platform/validate"
)

// ErrBatchNotFound is returned by a [Store] for unknown or expired batch IDs.
var ErrBatchNotFound = errors.New("ingest: batch not found")

// # Requests

// Request describes one harvest.
type Request struct {
	Classification string `json:"classification"`
	Records        int    `json:"records"`
	PageSize       int    `json:"page_size"`
	Persist        bool   `json:"persist"`
}

// withDefaults fills omitted numeric fields.
func (r Request) withDefaults(pageSize int) Request {
	if r.Records == 0 {
		r.Records = constants.HarvestDefaultRecords
	}
	if r.PageSize == 0 {
		r.PageSize = pageSize
	}
	return r
}

// Validate checks bounds and resolves the classification to its canonical name.
func (r *Request) Validate() error {
	canonical, known := harvest.ResolveClassification(r.Classification)

	v := &validate.Validator{}
	v.Required("classification", r.Classification).
		Custom("classification", r.Classification != "" && !known, "Unknown classification").
		Range("records", r.Records, constants.HarvestMinRecords, constants.HarvestMaxRecords).
		Range("page_size", r.PageSize, 1, constants.ProviderPageSize)
	if err := v.Err(); err != nil {
		return err
	}

	r.Classification = canonical
	return nil
}

// # Staged Batches

// StagedBatch is a fetched batch held between the fetch and persist steps.
type StagedBatch struct {
	ID             string             `json:"id"`
	Classification string             `json:"classification"`
	Requested      int                `json:"requested"`
	Records        []harvest.Record   `json:"records"`
	Pages          int                `json:"pages"`
	TotalRecords   *int64             `json:"total_records"`
	Stop           harvest.StopReason `json:"stop"`
	ProviderError  string             `json:"provider_error,omitempty"`
	FetchedAt      time.Time          `json:"fetched_at"`
	ArchiveKey     string             `json:"archive_key,omitempty"`
	Counts         *artifact.Counts   `json:"counts,omitempty"`
	PersistedAt    *time.Time         `json:"persisted_at,omitempty"`
}

// Summary is the record-free view of a staged batch returned to callers.
type Summary struct {
	ID             string             `json:"id"`
	Classification string             `json:"classification"`
	Requested      int                `json:"requested"`
	Fetched        int                `json:"fetched"`
	Pages          int                `json:"pages"`
	TotalRecords   *int64             `json:"total_records"`
	Stop           harvest.StopReason `json:"stop"`
	Partial        bool               `json:"partial"`
	ProviderError  string             `json:"provider_error,omitempty"`
	FetchedAt      time.Time          `json:"fetched_at"`
	ArchiveKey     string             `json:"archive_key,omitempty"`
	Persisted      bool               `json:"persisted"`
	Counts         *artifact.Counts   `json:"counts,omitempty"`
}

// Summary drops the raw records.
func (b *StagedBatch) Summary() *Summary {
	return &Summary{
		ID:             b.ID,
		Classification: b.Classification,
		Requested:      b.Requested,
		Fetched:        len(b.Records),
		Pages:          b.Pages,
		TotalRecords:   b.TotalRecords,
		Stop:           b.Stop,
		Partial:        b.ProviderError != "",
		ProviderError:  b.ProviderError,
		FetchedAt:      b.FetchedAt,
		ArchiveKey:     b.ArchiveKey,
		Persisted:      b.PersistedAt != nil,
		Counts:         b.Counts,
	}
}

// Preview holds the normalized rows of a staged batch, split per table.
type Preview struct {
	BatchID  string              `json:"batch_id"`
	Metadata []artifact.Metadata `json:"metadata"`
	Media    []artifact.Media    `json:"media"`
	Colors   []artifact.Color    `json:"colors"`
	Dropped  int                 `json:"dropped"`
}

// # Encoding

func encodeBatch(batch *StagedBatch) ([]byte, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("ingest: encode batch: %w", err)
	}
	return body, nil
}

// decodeBatch keeps numbers as json.Number so identities round-trip exactly.
func decodeBatch(body []byte) (*StagedBatch, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var batch StagedBatch
	if err := decoder.Decode(&batch); err != nil {
		return nil, fmt.Errorf("ingest: decode batch: %w", err)
	}
	return &batch, nil
}
