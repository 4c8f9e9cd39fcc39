package live

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServeStream streams events as server-sent events, one SSE event per live event.
func (h *Hub) ServeStream(c *gin.Context) {
	sub := h.Subscribe()
	defer h.Unsubscribe(sub)

	header := c.Writer.Header()
	header.Set("Content-Type", sse.ContentType)
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	h.logger.Info("Viewer connected", zap.String("transport", "sse"), zap.String("remote", c.ClientIP()))

	keepAlive := time.NewTicker(pingPeriod)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-sub.C:
			if !ok {
				return false
			}
			return sse.Encode(w, sse.Event{Event: ev.Name, Data: string(ev.Data)}) == nil
		case <-keepAlive.C:
			_, err := io.WriteString(w, ": keep-alive\n\n")
			return err == nil
		}
	})

	h.logger.Info("Viewer disconnected", zap.String("transport", "sse"), zap.String("remote", c.ClientIP()))
}
