package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistoria-app/vistoria/internal/providers"
)

func TestDescribeImage(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"response":"Janela com vidro trincado."}`))
	}))
	defer server.Close()

	text, err := New(server.URL, server.Client()).DescribeImage(context.Background(),
		providers.Config{Model: "llava", Prompt: "p", MaxTokens: 300},
		providers.Image{Data: []byte("abc")})
	require.NoError(t, err)
	assert.Equal(t, "Janela com vidro trincado.", text)

	assert.Equal(t, "llava", captured["model"])
	assert.Equal(t, false, captured["stream"])
	assert.Equal(t, []interface{}{"YWJj"}, captured["images"])
	assert.EqualValues(t, 300, captured["options"].(map[string]interface{})["num_predict"])
}

func TestDescribeImageErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "model not loaded",
			check: func(t *testing.T, err error) {
				var statusErr *providers.StatusError
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, 500, statusErr.Code)
				assert.Equal(t, "model not loaded", statusErr.Body)
			},
		},
		{
			name:   "missing response field",
			status: http.StatusOK,
			body:   `{"done":true}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, providers.ErrMalformedResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL, nil).DescribeImage(context.Background(), providers.Config{Model: "llava"}, providers.Image{})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
