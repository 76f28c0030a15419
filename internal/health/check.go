package health

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"
)

// HttpHealthCheck passes once anything answers HTTP at Url.
type HttpHealthCheck struct {
	Method string
	Url    string
}

func CheckHttp(healthCheck HttpHealthCheck) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, healthCheck.Method, healthCheck.Url, nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	cancel()

	// Non-200 status codes are fine, because we still got a response from an
	// http server
	return true
}

type TcpHealthCheck struct {
	Ipv4 bool
	Port int
}

func CheckTcp(healthCheck TcpHealthCheck) bool {
	host := "::1"
	if healthCheck.Ipv4 {
		host = "127.0.0.1"
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(healthCheck.Port)), time.Second)
	if err != nil {
		return false
	}
	conn.Close()

	return true
}
