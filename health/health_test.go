package health_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waigel/messengerpeople-go/auth"
	"github.com/waigel/messengerpeople-go/health"
	"github.com/waigel/messengerpeople-go/mpclient"
	"github.com/waigel/messengerpeople-go/testutil"
)

func newClient(t *testing.T, api http.Handler) (*mpclient.Client, *testutil.MockPlatform) {
	t.Helper()

	platform := testutil.NewMockPlatform(t, nil, api)
	client, err := mpclient.NewBuilder().
		WithCredentials(auth.BearerCredentials{AccessToken: "test-token"}).
		WithBaseURL(platform.APIURL).
		WithAuthURL(platform.AuthURL).
		WithBaseTransport(platform.Transport).
		Build(context.Background())
	require.NoError(t, err)

	return client, platform
}

func TestGetIPAddresses(t *testing.T) {
	client, platform := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["203.0.113.10", "203.0.113.11"]`))
	}))

	ips, err := health.New(client).GetIPAddresses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.10", "203.0.113.11"}, ips)

	reqs := platform.APIRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/ip", reqs[0].URL.Path)
	assert.Equal(t, "Bearer test-token", reqs[0].Header.Get("Authorization"))
}

func TestGetIPAddresses_Empty(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	ips, err := health.New(client).GetIPAddresses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ips)
}

func TestGetIPAddresses_TransportError(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"maintenance","status_code":503}`))
	}))

	ips, err := health.New(client).GetIPAddresses(context.Background())
	require.Error(t, err)
	assert.Nil(t, ips)
	assert.Equal(t, http.StatusServiceUnavailable, mpclient.StatusCode(err))
	assert.Contains(t, err.Error(), "health: get ip addresses")

	var transportErr *mpclient.TransportError
	require.True(t, errors.As(err, &transportErr))
	apiErr, ok := transportErr.APIError()
	require.True(t, ok)
	assert.Equal(t, "maintenance", apiErr.Message)
}

func TestGetIPAddresses_UnexpectedShape(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ips":["203.0.113.10"]}`))
	}))

	_, err := health.New(client).GetIPAddresses(context.Background())
	require.Error(t, err)
	assert.Zero(t, mpclient.StatusCode(err))
}
