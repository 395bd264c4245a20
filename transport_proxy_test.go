package umqtt

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProxyDialer(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		username string
		password string
		wantErr  bool
		wantUser string
		wantPass string
	}{
		{
			name: "http proxy",
			url:  "http://proxy.example.com:8080",
		},
		{
			name: "socks5 proxy",
			url:  "socks5://proxy.example.com:1080",
		},
		{
			name:     "explicit credentials",
			url:      "http://proxy.example.com:8080",
			username: "user",
			password: "pass",
			wantUser: "user",
			wantPass: "pass",
		},
		{
			name:     "credentials from URL",
			url:      "http://ul:pl@proxy.example.com:8080",
			wantUser: "ul",
			wantPass: "pl",
		},
		{
			name:     "explicit credentials win over URL",
			url:      "http://ul:pl@proxy.example.com:8080",
			username: "user",
			password: "pass",
			wantUser: "user",
			wantPass: "pass",
		},
		{
			name:    "unsupported scheme",
			url:     "ftp://proxy.example.com",
			wantErr: true,
		},
		{
			name:    "garbage URL",
			url:     "://not-a-url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewProxyDialer(tt.url, tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, d.username)
			assert.Equal(t, tt.wantPass, d.password)
		})
	}
}

func TestProxyDialerHTTPConnect(t *testing.T) {
	// A minimal CONNECT-speaking proxy on a local listener.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	accepted := make(chan string, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		br := bufio.NewReader(conn)
		req, err := http.ReadRequest(br)
		if err != nil {
			return
		}
		accepted <- req.Method + " " + req.Host

		conn.Write([]byte("HTTP/1.1 200 Connection Established\r\n\r\n"))

		// Echo through the established tunnel.
		buf := make([]byte, 4)
		if _, err := io.ReadFull(br, buf); err != nil {
			return
		}
		if string(buf) == "ping" {
			conn.Write([]byte("pong"))
		}
	}()

	d, err := NewProxyDialer("http://"+listener.Addr().String(), "", "")
	require.NoError(t, err)

	conn, err := d.Dial(context.Background(), "target.example.com:1883")
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, "CONNECT target.example.com:1883", <-accepted)

	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)

	buf := make([]byte, 4)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf))
}

func TestProxyDialerHTTPConnectRefused(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		if _, err := http.ReadRequest(bufio.NewReader(conn)); err != nil {
			return
		}
		conn.Write([]byte("HTTP/1.1 403 Forbidden\r\n\r\n"))
	}()

	d, err := NewProxyDialer("http://"+listener.Addr().String(), "", "")
	require.NoError(t, err)

	_, err = d.Dial(context.Background(), "target.example.com:1883")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestProxyDialerProxyUnreachable(t *testing.T) {
	d, err := NewProxyDialer("http://127.0.0.1:1", "", "")
	require.NoError(t, err)

	_, err = d.Dial(context.Background(), "target.example.com:1883")
	assert.Error(t, err)
}
