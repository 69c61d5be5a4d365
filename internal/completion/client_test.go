package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "github.com/Rorical/RoriComplete/internal/log"
)

func TestEncodeRequest_FixedParameters(t *testing.T) {
	body, err := DefaultParams().EncodeRequest("Once upon a")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, DefaultModel, got["model"])
	assert.Equal(t, "Once upon a", got["prompt"])
	assert.InDelta(t, 0.9, got["temperature"], 1e-6)
	assert.EqualValues(t, 512, got["max_tokens"])
	assert.EqualValues(t, 1, got["top_p"])
	assert.InDelta(t, 0.5, got["frequency_penalty"], 1e-6)
	assert.InDelta(t, 0.25, got["presence_penalty"], 1e-6)
}

func TestEncodeRequest_SerializationFailure(t *testing.T) {
	params := DefaultParams()
	params.Temperature = float32(math.NaN())

	_, err := params.EncodeRequest("hello")
	require.Error(t, err)
	assert.Equal(t, KindSerialization, KindOf(err))
	assert.Contains(t, err.Error(), "ERROR: ")
}

func TestClientSend_Success(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/completions", r.URL.Path)
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"choices":[{"text":" time","index":0,"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/v1/", DefaultParams(), 5*time.Second, nil)
	resp, err := client.Complete(context.Background(), "Once upon a", "sk-test")
	require.NoError(t, err)

	assert.Equal(t, Success, resp.Kind)
	assert.Equal(t, " time", resp.Completion.Text())
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "Bearer sk-test", gotHeaders.Get("Authorization"))
	assert.Equal(t, "Once upon a", gotBody["prompt"])
}

func TestClientSend_BodiesLoggedAtTrace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[{"text":" reply","index":0}]}`)
	}))
	defer srv.Close()

	for _, tt := range []struct {
		level      string
		wantBodies bool
	}{
		{"trace", true},
		{"debug", false},
	} {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			client := NewClient(srv.URL, DefaultParams(), 5*time.Second, applog.NewWithWriter(&buf, tt.level))
			_, err := client.Complete(context.Background(), "secret prompt", "sk-test")
			require.NoError(t, err)

			out := buf.String()
			assert.Contains(t, out, "completion request")
			assert.Contains(t, out, "completion response")
			if tt.wantBodies {
				assert.Contains(t, out, "level=TRACE")
				assert.Contains(t, out, "secret prompt")
				assert.Contains(t, out, " reply")
			} else {
				assert.NotContains(t, out, "secret prompt")
				assert.NotContains(t, out, "level=TRACE")
			}
			assert.NotContains(t, out, "sk-test")
		})
	}
}

func TestClientSend_APIErrorIgnoresStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, DefaultParams(), 5*time.Second, nil)
	resp, err := client.Complete(context.Background(), "hi", "bad")
	require.NoError(t, err)
	assert.Equal(t, APIFailure, resp.Kind)
	assert.Equal(t, "ERROR: invalid_request_error", resp.Err().Error())
}

func TestClientSend_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `<html>bad gateway</html>`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, DefaultParams(), 5*time.Second, nil)
	_, err := client.Complete(context.Background(), "hi", "tok")
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
	assert.Contains(t, err.Error(), "ERROR: decode response")
}

func TestClientSend_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, DefaultParams(), 5*time.Second, nil)
	_, err := client.Complete(context.Background(), "hi", "tok")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.NotContains(t, err.Error(), "ERROR: ")
}

func TestClientSend_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL, DefaultParams(), 0, nil)
	_, err := client.Complete(ctx, "hi", "tok")
	require.Error(t, err)
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadCredential(t *testing.T) {
	dir := t.TempDir()

	t.Run("trims whitespace", func(t *testing.T) {
		path := filepath.Join(dir, "openai.token")
		require.NoError(t, os.WriteFile(path, []byte("  sk-abc \n"), 0600))

		token, err := LoadCredential(path)
		require.NoError(t, err)
		assert.Equal(t, "sk-abc", token)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCredential(filepath.Join(dir, "absent.token"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCredentialMissing)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Equal(t, KindCredentialMissing, KindOf(err))
	})

	t.Run("blank file", func(t *testing.T) {
		path := filepath.Join(dir, "blank.token")
		require.NoError(t, os.WriteFile(path, []byte("\n\t "), 0600))

		_, err := LoadCredential(path)
		assert.ErrorIs(t, err, ErrCredentialMissing)
	})
}

func TestSaveCredential_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openai.token")
	require.NoError(t, SaveCredential(path, " sk-xyz "))

	token, err := LoadCredential(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-xyz", token)

	assert.Error(t, SaveCredential(path, "   "))
}
