package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobPayloadUnmarshalBase64Buffer(t *testing.T) {
	raw := `{
		"jobId": "job-1",
		"userId": "user-1",
		"filename": "invoice.pdf",
		"mimeType": "application/pdf",
		"fileSize": 5,
		"fileBuffer": "aGVsbG8=",
		"metadata": {"preferEngine": "vision"}
	}`

	var p JobPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, "job-1", p.JobID)
	assert.Equal(t, "invoice.pdf", p.Filename)
	assert.Equal(t, []byte("hello"), p.FileBuffer)
	assert.Equal(t, "vision", p.Metadata["preferEngine"])
}

func TestJobPayloadUnmarshalNodeBuffer(t *testing.T) {
	raw := `{
		"jobId": "job-2",
		"filename": "scan.png",
		"fileBuffer": {"type": "Buffer", "data": [104, 105]}
	}`

	var p JobPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, []byte("hi"), p.FileBuffer)
}

func TestJobPayloadUnmarshalMissingBuffer(t *testing.T) {
	raw := `{"jobId": "job-3", "filename": "scan.png", "fileUrl": "https://example.com/scan.png"}`

	var p JobPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Nil(t, p.FileBuffer)
	assert.Equal(t, "https://example.com/scan.png", p.FileURL)
}

func TestJobPayloadUnmarshalRejectsBadBuffer(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid base64", `{"jobId": "j", "fileBuffer": "not-base64!!!"}`},
		{"wrong buffer type", `{"jobId": "j", "fileBuffer": {"type": "NotBuffer", "data": []}}`},
		{"missing data array", `{"jobId": "j", "fileBuffer": {"type": "Buffer"}}`},
		{"numeric buffer", `{"jobId": "j", "fileBuffer": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p JobPayload
			assert.Error(t, json.Unmarshal([]byte(tt.raw), &p))
		})
	}
}

func TestRedisJobDataUnmarshal(t *testing.T) {
	raw := `{
		"id": "queue-entry-1",
		"type": "process-document",
		"payload": {"jobId": "job-4", "filename": "doc.pdf", "fileBuffer": "JVBERg=="},
		"attempts": 1,
		"maxRetries": 3
	}`

	var job RedisJobData
	require.NoError(t, json.Unmarshal([]byte(raw), &job))

	assert.Equal(t, "queue-entry-1", job.ID)
	assert.Equal(t, 1, job.Attempts)
	assert.Equal(t, 3, job.MaxRetries)
	assert.Equal(t, "job-4", job.Payload.JobID)
	assert.Equal(t, []byte("%PDF"), job.Payload.FileBuffer)
}

func TestNewConsumerValidation(t *testing.T) {
	_, err := NewConsumer(&ConsumerConfig{QueueName: "q", Processor: nil})
	assert.Error(t, err)

	_, err = NewConsumer(&ConsumerConfig{RedisURL: "redis://localhost:6379"})
	assert.ErrorContains(t, err, "QueueName")

	_, err = NewConsumer(&ConsumerConfig{RedisURL: "redis://localhost:6379", QueueName: "q"})
	assert.ErrorContains(t, err, "Processor")
}

func TestConsumerProcessingTimeoutDefault(t *testing.T) {
	c := &Consumer{config: &ConsumerConfig{}}
	assert.Equal(t, "5m0s", c.processingTimeout().String())

	c.config.ProcessingTimeout = 60000
	assert.Equal(t, "1m0s", c.processingTimeout().String())
}
