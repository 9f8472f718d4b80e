package httpclient_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	ierr "github.com/flexprice/salestax/internal/errors"
	"github.com/flexprice/salestax/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var gotBody, gotAuth, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := httpclient.NewDefaultClient()
	resp, err := client.Send(context.Background(), &httpclient.Request{
		Method:  http.MethodPost,
		URL:     server.URL,
		Headers: map[string]string{"Authorization": "Basic abc"},
		Body:    []byte(`{"a":1}`),
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, "yes", resp.Headers["X-Test"])
	assert.Equal(t, `{"a":1}`, gotBody)
	assert.Equal(t, "Basic abc", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
}

func TestSendNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`denied`))
	}))
	defer server.Close()

	resp, err := httpclient.NewDefaultClient().Send(context.Background(), &httpclient.Request{
		Method: http.MethodGet,
		URL:    server.URL,
	})

	assert.Nil(t, resp)
	httpErr, ok := httpclient.IsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.Equal(t, "denied", string(httpErr.Response))
	assert.True(t, ierr.IsHTTPClient(err))
}

func TestSendConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	resp, err := httpclient.NewDefaultClient().Send(context.Background(), &httpclient.Request{
		Method: http.MethodGet,
		URL:    url,
	})

	assert.Nil(t, resp)
	assert.True(t, ierr.IsHTTPClient(err))
	_, isStatusErr := httpclient.IsHTTPError(err)
	assert.False(t, isStatusErr)
}
