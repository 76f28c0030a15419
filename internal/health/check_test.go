package health

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHttp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		res.WriteHeader(http.StatusNotFound)
	}))

	assert.True(t, CheckHttp(HttpHealthCheck{Method: "GET", Url: server.URL}), "any status counts")

	server.Close()
	assert.False(t, CheckHttp(HttpHealthCheck{Method: "GET", Url: server.URL}))
}

func TestCheckTcp(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := listener.Addr().(*net.TCPAddr).Port
	assert.True(t, CheckTcp(TcpHealthCheck{Ipv4: true, Port: port}))

	listener.Close()
	assert.False(t, CheckTcp(TcpHealthCheck{Ipv4: true, Port: port}))
}
