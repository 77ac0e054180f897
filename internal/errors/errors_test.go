package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")

	assert.Equal(t, "Invalid request format", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
	assert.Nil(t, err.Details)
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusNotFound, "NOT_FOUND", "dataset not found", "records")
	assert.Equal(t, "records", err.Details)
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("scoreMax", "must be at most 10")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	detail, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "scoreMax", detail.Field)
	assert.Equal(t, "must be at most 10", detail.Message)
}

func TestParseFailedError(t *testing.T) {
	err := ParseFailedError(fmt.Errorf("file has no header row"))

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "PARSE_FAILED", err.ErrorCode)
	assert.Equal(t, "file has no header row", err.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err    *APIError
		status int
		code   string
	}{
		{ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{ErrDatasetNotFound, http.StatusNotFound, "DATASET_NOT_FOUND"},
		{ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{ErrRateLimitExceeded, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{ErrInternalServer, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.code, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeDatasetNotFound, "Not Found", "no dataset loaded", "/api/records").
		WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, TypeDatasetNotFound, decoded["type"])
	assert.Equal(t, "Not Found", decoded["title"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
	assert.Equal(t, "no dataset loaded", decoded["detail"])
	assert.Equal(t, "/api/records", decoded["instance"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
}

func TestProblemDetails_OmitsEmptyFields(t *testing.T) {
	pd := NewProblemDetails(http.StatusInternalServerError, TypeInternal, "Internal Server Error", "", "")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "detail")
	assert.NotContains(t, decoded, "instance")
}

func TestAppError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("failed to fetch remote file", cause)

	assert.Equal(t, "[NETWORK] failed to fetch remote file: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))

	err.WithContext("url", "https://example.com/data.csv")
	assert.Equal(t, "https://example.com/data.csv", err.Context["url"])
}

func TestAppError_NoCause(t *testing.T) {
	err := NewNotFoundError("snapshot")
	assert.Equal(t, "[NOT_FOUND] snapshot not found", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}
