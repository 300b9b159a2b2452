// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taibuivan/autoluxe/pkg/ws"
)

func startHub(t *testing.T) (*ws.Hub, *httptest.Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(zap.NewNop())
	go hub.Run(ctx)

	upgrader := &websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_ = hub.Serve(upgrader, writer, request, request.URL.Query().Get("topic"))
	}))

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, topic string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?topic=" + topic
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

/*
TestHub_PublishIsScopedToTopic verifies that a message reaches only its topic.
*/
func TestHub_PublishIsScopedToTopic(t *testing.T) {
	hub, server := startHub(t)

	first := dial(t, server, "alpha")
	second := dial(t, server, "beta")

	require.Eventually(t, func() bool { return hub.Count("alpha") == 1 && hub.Count("beta") == 1 },
		time.Second, 10*time.Millisecond)

	hub.Publish("alpha", "notice", map[string]string{"message": "hello"})

	var message struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, first.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, first.ReadJSON(&message))
	assert.Equal(t, "notice", message.Type)
	assert.Equal(t, "hello", message.Data["message"])

	require.NoError(t, second.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := second.ReadMessage()
	assert.Error(t, err, "beta must not receive alpha's message")
}

/*
TestHub_CloseTopic verifies that closing a topic disconnects its clients.
*/
func TestHub_CloseTopic(t *testing.T) {
	hub, server := startHub(t)

	conn := dial(t, server, "gamma")
	require.Eventually(t, func() bool { return hub.Count("gamma") == 1 }, time.Second, 10*time.Millisecond)

	hub.CloseTopic("gamma")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.Count("gamma"))
}

/*
TestHub_StoppedHub verifies that a stopped hub never blocks callers.
*/
func TestHub_StoppedHub(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub(zap.NewNop())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	hub.Publish("alpha", "notice", nil)
	hub.CloseTopic("alpha")
	assert.Equal(t, 0, hub.Count("alpha"))
}
