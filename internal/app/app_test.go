package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haytac/social-post-bot/internal/config"
	"github.com/haytac/social-post-bot/internal/social"
	"github.com/haytac/social-post-bot/pkg/interfaces"
)

type recordingNotifier struct {
	chatID string
	parts  []interfaces.FormattedMessagePart
	err    error
}

func (r *recordingNotifier) Send(_ context.Context, chatID string, parts []interfaces.FormattedMessagePart) error {
	r.chatID = chatID
	r.parts = parts
	return r.err
}

func (r *recordingNotifier) Name() string { return "recording" }

func testPost() *social.Post {
	return &social.Post{Platform: "tiktok", Author: "@dancer", URL: "https://tiktok.com/@dancer/video/1", Likes: social.Count(10)}
}

func TestDeliver(t *testing.T) {
	cfg := &config.AppConfig{}
	cfg.Telegram.DefaultChatID = "@feed"
	app, err := NewApplication(cfg)
	require.NoError(t, err)
	rec := &recordingNotifier{}
	app.Notifier = rec

	n, err := app.Deliver(context.Background(), "", testPost())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "@feed", rec.chatID)
	require.Len(t, rec.parts, 1)
	assert.Contains(t, rec.parts[0].Text, "🎵 <b>TIKTOK</b>")

	_, err = app.Deliver(context.Background(), "99", testPost())
	require.NoError(t, err)
	assert.Equal(t, "99", rec.chatID)
}

func TestDeliver_Errors(t *testing.T) {
	app, err := NewApplication(&config.AppConfig{})
	require.NoError(t, err)
	rec := &recordingNotifier{err: errors.New("boom")}
	app.Notifier = rec

	_, err = app.Deliver(context.Background(), "", testPost())
	assert.ErrorIs(t, err, ErrNoChatID)

	_, err = app.Deliver(context.Background(), "1", testPost())
	assert.ErrorContains(t, err, "sending via recording: boom")
}

func TestDeliver_DryRun(t *testing.T) {
	app, err := NewApplication(&config.AppConfig{DryRun: true})
	require.NoError(t, err)
	rec := &recordingNotifier{}
	app.Notifier = rec

	n, err := app.Deliver(context.Background(), "1", testPost())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, rec.chatID, "notifier must not be called")
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	app, err := NewApplication(&config.AppConfig{ListenAddr: addr})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
