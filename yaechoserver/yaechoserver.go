// Package yaechoserver is a small WebSocket echo peer built on gin.
//
// GET /ws upgrades the request and writes every frame back unchanged. Two
// query parameters make the peer misbehave on purpose:
//
//   - close_after=N sends a close frame (code close_code, default 1012) after
//     N echoes.
//   - drop_after=N drops the TCP connection without a close frame after N
//     echoes.
//
// Example:
//
//	router := yaechoserver.NewRouter(log)
//	_ = router.Run(":8080")
package yaechoserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/YaCodeDev/GoYaSocket/yalogger"
)

const (
	EchoPath         = "/ws"
	HealthPath       = "/healthz"
	DefaultCloseCode = websocket.CloseServiceRestart
	closeWriteWait   = time.Second
)

// EchoQuery are the optional knobs of the echo endpoint.
type EchoQuery struct {
	CloseAfter int `form:"close_after" binding:"gte=0"`
	CloseCode  int `form:"close_code"`
	DropAfter  int `form:"drop_after"  binding:"gte=0"`
}

type handler struct {
	log      yalogger.Logger
	upgrader websocket.Upgrader
}

// NewRouter returns a gin engine serving the echo endpoint and a health check.
func NewRouter(log yalogger.Logger) *gin.Engine {
	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	h := &handler{
		log: log,
		upgrader: websocket.Upgrader{
			CheckOrigin:       func(*http.Request) bool { return true },
			EnableCompression: true,
			HandshakeTimeout:  10 * time.Second,
		},
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET(EchoPath, h.echo)

	return router
}

func (h *handler) echo(c *gin.Context) {
	var query EchoQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if query.CloseCode == 0 {
		query.CloseCode = DefaultCloseCode
	}

	var header http.Header
	if protocols := websocket.Subprotocols(c.Request); len(protocols) > 0 {
		header = http.Header{"Sec-Websocket-Protocol": {protocols[0]}}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		h.log.Warnf("Upgrade failed: %v", err)

		return
	}
	defer conn.Close()

	log := h.log.WithRandomRequestID().WithField("remote", c.ClientIP())
	log.Debug("Echo connection open")

	for echoed := 0; ; {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			log.Debugf("Echo connection done: %v", err)

			return
		}

		if err := conn.WriteMessage(kind, data); err != nil {
			log.Debugf("Echo write failed: %v", err)

			return
		}

		echoed++

		if query.DropAfter > 0 && echoed >= query.DropAfter {
			log.Debug("Dropping connection")

			return
		}

		if query.CloseAfter > 0 && echoed >= query.CloseAfter {
			log.WithField("code", query.CloseCode).Debug("Closing connection")

			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(query.CloseCode, "echo limit reached"),
				time.Now().Add(closeWriteWait),
			)

			return
		}
	}
}
