// syndicare/internal/nlu/client_test.go
package nlu_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khalidesskali/syndicare/internal/nlu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySendsRequestAndDecodesVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/classify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "show my charges", payload["text"])
		assert.Equal(t, "user-42", payload["session_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"intent":"resident.charges.list","confidence":0.87,"reply":""}`))
	}))
	defer server.Close()

	client := nlu.NewClient(server.URL)
	verdict, err := client.Classify(context.Background(), "show my charges", "user-42")
	require.NoError(t, err)
	assert.Equal(t, "resident.charges.list", verdict.Intent)
	assert.InDelta(t, 0.87, verdict.Confidence, 0.001)
}

func TestClassifyServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := nlu.NewClient(server.URL)
	_, err := client.Classify(context.Background(), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClassifyUnreachableService(t *testing.T) {
	client := nlu.NewClient("http://127.0.0.1:1")
	_, err := client.Classify(context.Background(), "hello", "")
	assert.Error(t, err)
}
