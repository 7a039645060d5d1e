package cmd

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeAnswersAndStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	stopped := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, Options{
			Addr: "127.0.0.1:0",
			Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "pong")
			}),
			ShutdownTimeout: time.Second,
			Ready:           func(a net.Addr) { addrCh <- a },
			OnStop: func(context.Context) error {
				close(stopped)
				return nil
			},
		})
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	resp, err := http.Get("http://" + addr.String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-stopped
}

func TestServeRejectsBadInput(t *testing.T) {
	assert.Error(t, Serve(context.Background(), Options{Addr: "127.0.0.1:0"}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	err = Serve(context.Background(), Options{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()})
	assert.ErrorContains(t, err, "listen")
}

func TestConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/etc/quizbot.yaml")
	assert.Equal(t, "flag.yaml", ConfigPath(" flag.yaml ", ""))
	assert.Equal(t, "/etc/quizbot.yaml", ConfigPath("", ""))

	t.Setenv("QUIZBOT_CONFIG", "")
	assert.Empty(t, ConfigPath("", "QUIZBOT_CONFIG"))
}
