package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublisher(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPublisher()

	body := []byte(`[]`)
	require.NoError(t, p.Publish(ctx, "run-1", "/results.json", body))
	body[0] = 'x'
	require.NoError(t, p.Publish(ctx, "run-1", "report.txt", []byte("r")))

	got, err := p.Get("run-1", "results.json")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.Equal(t, []string{"run-1/report.txt", "run-1/results.json"}, p.Keys())

	_, err = p.Get("run-2", "results.json")
	assert.Error(t, err)
}

func TestPublish_Validation(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPublisher()
	assert.ErrorContains(t, p.Publish(ctx, " ", "a", nil), "run_id")
	assert.ErrorContains(t, p.Publish(ctx, "r", "", nil), "name")
}

func TestNewS3Publisher_Validation(t *testing.T) {
	_, err := NewS3Publisher(S3Config{})
	assert.ErrorContains(t, err, "endpoint")
	_, err = NewS3Publisher(S3Config{Endpoint: "localhost:9000"})
	assert.ErrorContains(t, err, "access key")
	_, err = NewS3Publisher(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"})
	assert.ErrorContains(t, err, "bucket")

	p, err := NewS3Publisher(S3Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s", Bucket: "docarch"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", p.region)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("results.json"))
	assert.Contains(t, contentType("report.txt"), "text/plain")
	assert.Equal(t, "application/octet-stream", contentType("blob"))
}
