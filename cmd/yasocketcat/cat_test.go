package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YaCodeDev/GoYaSocket/config"
	"github.com/YaCodeDev/GoYaSocket/yabackoff"
	"github.com/YaCodeDev/GoYaSocket/yabuffer"
	"github.com/YaCodeDev/GoYaSocket/yaechoserver"
	"github.com/YaCodeDev/GoYaSocket/yaencoding"
	"github.com/YaCodeDev/GoYaSocket/yaerrors"
	"github.com/YaCodeDev/GoYaSocket/yalogger"
	"github.com/YaCodeDev/GoYaSocket/yasocket"
)

func TestNewBuffer(t *testing.T) {
	t.Parallel()

	ring, err := newBuffer(config.Buffer{Kind: kindRing, Capacity: 4})
	require.Nil(t, err)
	assert.IsType(t, &yabuffer.Ring[yasocket.Message]{}, ring)
	assert.Equal(t, 4, ring.Size())

	window, err := newBuffer(config.Buffer{Kind: kindWindow, MaxAge: time.Minute})
	require.Nil(t, err)
	assert.Equal(t, time.Minute, window.(*yabuffer.TimeWindow[yasocket.Message]).MaxAge())

	none, err := newBuffer(config.Buffer{Kind: kindNone})
	require.Nil(t, err)
	assert.Nil(t, none)

	_, err = newBuffer(config.Buffer{Kind: "disk"})
	require.NotNil(t, err)
	assert.True(t, yaerrors.Is(err, ErrUnknownKind))
}

func TestNewBackoff(t *testing.T) {
	t.Parallel()

	linear, err := newBackoff(config.Backoff{
		Kind:      kindLinear,
		Initial:   100 * time.Millisecond,
		Increment: 50 * time.Millisecond,
		Ceiling:   200 * time.Millisecond,
	})
	require.Nil(t, err)
	assert.Equal(t, 100*time.Millisecond, linear.Next())
	assert.Equal(t, 150*time.Millisecond, linear.Next())

	constant, err := newBackoff(config.Backoff{Kind: kindConstant, Initial: time.Second})
	require.Nil(t, err)
	assert.IsType(t, &yabackoff.Constant{}, constant)

	exponential, err := newBackoff(config.Backoff{Kind: kindExponential, Initial: time.Second, Multiplier: 2})
	require.Nil(t, err)
	assert.IsType(t, &yabackoff.Exponential{}, exponential)

	none, err := newBackoff(config.Backoff{Kind: kindNone})
	require.Nil(t, err)
	assert.Nil(t, none)

	_, err = newBackoff(config.Backoff{Kind: "fibonacci"})
	require.NotNil(t, err)
}

func TestConnectParams(t *testing.T) {
	t.Parallel()

	params := connectParams(config.Socket{
		URL:              "ws://example.test",
		Headers:          map[string]string{"authorization": "Bearer x"},
		TCPNoDelay:       true,
		HandshakeTimeout: time.Second,
	})

	assert.Equal(t, "Bearer x", params.Header.Get("Authorization"))
	assert.True(t, params.TCPNoDelay)
	assert.Equal(t, time.Second, params.Timeout)
	assert.Nil(t, connectParams(config.Socket{}).Header)
}

func TestLineMessage(t *testing.T) {
	t.Parallel()

	text, err := lineMessage("hello", false)
	require.Nil(t, err)
	assert.Equal(t, yasocket.Text("hello"), text)

	packed, err := lineMessage(`{"a":1}`, true)
	require.Nil(t, err)
	assert.Equal(t, yasocket.BinaryMessage, packed.Type)

	_, err = lineMessage("not json", true)
	require.NotNil(t, err)
}

func TestPrinterRender(t *testing.T) {
	t.Parallel()

	plain := &printer{log: yalogger.NewDiscard()}
	assert.Equal(t, "hi", plain.render(yasocket.Text("hi")))
	assert.Equal(t, "AQI=", plain.render(yasocket.Binary([]byte{1, 2})))

	packed, err := yaencoding.EncodeMessagePack(map[string]any{"a": 1})
	require.Nil(t, err)

	decoding := &printer{msgpack: true, log: yalogger.NewDiscard()}
	assert.JSONEq(t, `{"a":1}`, decoding.render(packed))
}

func TestRootCommand_EchoRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(yaechoserver.NewRouter(yalogger.NewDiscard()))
	t.Cleanup(server.Close)

	t.Setenv("SOCKET_BACKOFF_KIND", kindNone)
	t.Setenv("SOCKET_LOG_LEVEL", "error")

	var out, errOut bytes.Buffer

	cmd := newRootCommand()
	cmd.SetArgs([]string{
		"--url", "ws" + strings.TrimPrefix(server.URL, "http") + yaechoserver.EchoPath,
		"--linger", "500ms",
	})
	cmd.SetIn(strings.NewReader("one\ntwo\n"))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	require.NoError(t, cmd.ExecuteContext(t.Context()))

	assert.Equal(t, "one\ntwo\n", out.String())
}
