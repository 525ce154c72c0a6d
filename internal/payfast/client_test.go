package payfast

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationClient_PostsAllFields(t *testing.T) {
	var received url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		received, _ = url.ParseQuery(string(body))
		_, _ = w.Write([]byte("VALID"))
	}))
	defer server.Close()

	n := referenceNotification()
	n["signature"] = "abc"

	client := NewValidationClient(server.URL, 0, nil)
	ok, err := client.Validate(context.Background(), n)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", received.Get("signature"))
	assert.Equal(t, "Course A", received.Get("item_name"))
	assert.Len(t, received, len(n))
}

func TestValidationClient_AnythingButValidFails(t *testing.T) {
	for _, body := range []string{"INVALID", "valid", "VALID\n", ""} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		ok, err := NewValidationClient(server.URL, 0, nil).Validate(context.Background(), referenceNotification())
		assert.NoError(t, err)
		assert.False(t, ok, "body %q", body)
		server.Close()
	}
}

func TestValidationClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	ok, err := NewValidationClient(server.URL, 0, nil).Validate(context.Background(), referenceNotification())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestValidationClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := NewValidationClient("http://127.0.0.1:1", 1, nil).Validate(ctx, referenceNotification())
	assert.Error(t, err)
	assert.False(t, ok)
}
