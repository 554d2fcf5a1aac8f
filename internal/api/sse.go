package api

import (
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/pokerjest/movieAutoTool/internal/event"
	"github.com/pokerjest/movieAutoTool/internal/logging"
)

// SSEHandler 处理 Server-Sent Events 连接
func (h *Handler) SSEHandler(c *gin.Context) {
	// 1. 设置 Header
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// 2. 总线是 callback 模式, 用一个 channel 做桥接
	clientChan := make(chan event.Event, 16)
	bridgeHandler := func(e event.Event) {
		// 非阻塞发送，避免慢客户端阻塞总线
		select {
		case clientChan <- e:
		default:
			logging.Debug().Str("type", string(e.Type)).Msg("SSE: client too slow, event dropped")
		}
	}

	// 3. 订阅同步相关事件
	subIDs := make(map[event.EventType]string)
	for _, t := range event.AllTypes {
		subIDs[t] = h.Bus.Subscribe(t, bridgeHandler)
	}
	defer func() {
		for t, id := range subIDs {
			h.Bus.Unsubscribe(t, id)
		}
		logging.Debug().Msg("SSE: client disconnected")
	}()

	// 4. 发送初始连接成功消息
	c.SSEvent("message", "connected")
	c.Writer.Flush()

	// 5. 循环推送, 直到客户端断开
	ctx := c.Request.Context()
	for {
		select {
		case evt := <-clientChan:
			data, err := json.Marshal(evt.Payload)
			if err != nil {
				logging.Warn().Err(err).Msg("SSE: marshal payload")
				continue
			}
			// 事件名即为 Topic
			c.SSEvent(string(evt.Type), string(data))
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}
