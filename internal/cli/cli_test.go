package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haytac/social-post-bot/internal/app"
	"github.com/haytac/social-post-bot/pkg/interfaces"
)

const testPost = `{
	"platform": "instagram",
	"author": "@nasa",
	"content": "Earthrise",
	"url": "https://instagram.com/p/earth",
	"likes": 1234567,
	"comments": 89,
	"media": [
		{"type": "video", "url": "https://cdn/v1.mp4", "duration": 95},
		{"type": "image", "url": "https://cdn/i1.jpg", "thumbnail": "https://cdn/i1_s.jpg"},
		{"type": "video", "url": "https://cdn/v2.mp4", "thumbnail": "https://cdn/v2.jpg"}
	]
}`

// executeCommand runs a fresh command tree in an empty working directory.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	t.Cleanup(func() { AppCfg = nil })

	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return strings.TrimSpace(buf.String()), err
}

func writePostFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "post.json")
	require.NoError(t, os.WriteFile(path, []byte(testPost), 0o600))
	return path
}

func TestFormatCmd(t *testing.T) {
	path := writePostFile(t)

	out, err := executeCommand(t, "", "format", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "📷 <b>INSTAGRAM</b>"))
	assert.Contains(t, out, "❤️ 1,234,567 | 💬 89")
	assert.Contains(t, out, `<a href="https://instagram.com/p/earth">Ver original</a>`)
}

func TestFormatCmd_StdinAndLocale(t *testing.T) {
	out, err := executeCommand(t, testPost, "format", "--locale", "de")
	require.NoError(t, err)
	assert.Contains(t, out, "❤️ 1.234.567")
}

func TestFormatCmd_Parts(t *testing.T) {
	out, err := executeCommand(t, testPost, "format", "-", "--parts")
	require.NoError(t, err)

	var parts []interfaces.FormattedMessagePart
	require.NoError(t, json.Unmarshal([]byte(out), &parts))
	require.Len(t, parts, 1)
	assert.Equal(t, "https://cdn/v1.mp4", parts[0].VideoURL)
	assert.True(t, strings.HasSuffix(parts[0].Text, "⏱ 1:35"))
}

func TestFormatCmd_EmptyInput(t *testing.T) {
	_, err := executeCommand(t, "", "format")
	assert.ErrorContains(t, err, "empty post payload")
}

func TestErrorCmd(t *testing.T) {
	out, err := executeCommand(t, "", "error", "twitter", "timeout")
	require.NoError(t, err)
	assert.Equal(t, "🐦 <b>Error al procesar TWITTER</b>\n\n❌ timeout", out)
}

func TestMediaCmd(t *testing.T) {
	out, err := executeCommand(t, testPost, "media")
	require.NoError(t, err)
	assert.Contains(t, out, "Main type: video")
	assert.Contains(t, out, "Thumbnail: https://cdn/v1.mp4")
	assert.Contains(t, out, "image: 1")
	assert.Contains(t, out, "video: 2")
	assert.Contains(t, out, "Duration: 1:35")
}

func TestMediaCmd_FilterByType(t *testing.T) {
	out, err := executeCommand(t, testPost, "media", "--type", "video")
	require.NoError(t, err)
	assert.Equal(t, "1. https://cdn/v1.mp4 (1:35)\n2. https://cdn/v2.mp4", out)

	out, err = executeCommand(t, testPost, "media", "--type", "gif")
	require.NoError(t, err)
	assert.Equal(t, "No gif media.", out)

	_, err = executeCommand(t, testPost, "media", "--type", "audio")
	assert.ErrorContains(t, err, "invalid media type")
}

func TestMediaCmd_NoMedia(t *testing.T) {
	out, err := executeCommand(t, `{"platform":"twitter","author":"a","url":"u"}`, "media")
	require.NoError(t, err)
	assert.Equal(t, "No media attached.", out)
}

func TestSendCmd_DryRun(t *testing.T) {
	out, err := executeCommand(t, testPost, "send", "--dry-run", "--chat", "@news")
	require.NoError(t, err)
	assert.Contains(t, out, "[dry run] 1 message part(s) rendered.")
}

func TestSendCmd_NoChat(t *testing.T) {
	_, err := executeCommand(t, testPost, "send", "--dry-run")
	assert.ErrorIs(t, err, app.ErrNoChatID)
}

func TestProxyCheckCmd_EmptyProxyConfig(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	out, err := executeCommand(t, "", "proxy", "check", "--target-url", target.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "No proxy configured")
	assert.Contains(t, out, "Proxy validation successful.")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
