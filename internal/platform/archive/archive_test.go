// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archive_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/internal/platform/archive"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "harvests/arms-and-armor/0192.json", archive.Key("Arms and Armor", "0192"))
}

func TestFS_RoundTrip(t *testing.T) {
	store, err := archive.NewFS(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := archive.Key("Coins", "batch-1")
	require.NoError(t, store.Put(ctx, key, []byte(`{"records":[]}`)))

	body, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"records":[]}`, string(body))

	// overwrite is allowed
	require.NoError(t, store.Put(ctx, key, []byte(`{"records":[1]}`)))
	body, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"records":[1]}`, string(body))
}

func TestFS_Errors(t *testing.T) {
	store, err := archive.NewFS(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "harvests/coins/missing.json")
	assert.ErrorIs(t, err, archive.ErrNotFound)

	for _, key := range []string{"", "/etc/passwd", "../escape.json", "harvests/../../x"} {
		assert.Error(t, store.Put(ctx, key, []byte("x")), key)
	}
}

func TestNop(t *testing.T) {
	var store archive.Archive = archive.Nop{}
	assert.NoError(t, store.Put(context.Background(), "k", []byte("x")))
	_, err := store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, archive.ErrNotFound)
	assert.Equal(t, archive.DriverNone, store.Driver())
}

// mockRoundTripper is a tiny fake S3 (path-style PUT/GET) sufficient to exercise the adapter.
type mockRoundTripper struct {
	mu    sync.Mutex
	state map[string][]byte
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if decoded, ok := decodeChunked(body); ok {
			body = decoded
		}
		m.state[key] = body
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}}, nil
	case http.MethodGet:
		if body, ok := m.state[key]; ok {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(body)), Header: http.Header{
				"Content-Length": {strconv.Itoa(len(body))},
				"Content-Type":   {"application/json"},
			}}, nil
		}
		notFound := `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(notFound)), Header: http.Header{"Content-Type": {"application/xml"}}}, nil
	}
	return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
}

// decodeChunked unwraps a single-chunk aws-chunked body.
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(strings.SplitN(parts[0], ";", 2)[0], 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n || parts[2] != "0" {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newMockS3(t *testing.T) (*archive.S3, *mockRoundTripper) {
	t.Helper()
	rt := &mockRoundTripper{state: make(map[string][]byte)}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	return archive.NewS3FromClient(client, "relic-test"), rt
}

func TestS3_MockedRoundTrip(t *testing.T) {
	store, rt := newMockS3(t)
	ctx := context.Background()

	key := archive.Key("Prints", "batch-7")
	require.NoError(t, store.Put(ctx, key, []byte(`{"classification":"Prints"}`)))
	assert.Contains(t, rt.state, key)

	body, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"classification":"Prints"}`, string(body))

	_, err = store.Get(ctx, "harvests/prints/missing.json")
	assert.ErrorIs(t, err, archive.ErrNotFound)

	assert.Equal(t, archive.DriverS3, store.Driver())
}

func TestNewS3_RequiresBucket(t *testing.T) {
	_, err := archive.NewS3(context.Background(), archive.S3Config{})
	assert.Error(t, err)
}
