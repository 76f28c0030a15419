package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"monacobundle.dev/internal/log"
	"monacobundle.dev/internal/pubsub"
)

type socketMessageOut struct {
	// TODO: This should probably be an enum type
	Kind string          `json:"kind"`
	Err  string          `json:"error,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// reloadHandler streams the build topic of the server's outdir to the page.
// Every published pubsub.BuildEvent arrives as {"kind":"build","data":event}.
func (server *Server) reloadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		topicId := pubsub.BuildTopic(server.Outdir)

		sub, err := server.Registry.Subscribe(topicId)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, pubsub.ErrTopicDoesntExist) {
				status = http.StatusNotFound
			}

			sendJson(c, status, gin.H{"error": err.Error()})
			return
		}
		defer sub.Unsubscribe()

		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Err(err, "Failed to upgrade websocket", log.Ctx{
				"topic": topicId.String(),
			})
			return
		}
		defer conn.Close()

		// Pages never send anything meaningful; reading is only how we
		// notice that they went away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		if err := conn.WriteJSON(socketMessageOut{Kind: "connected"}); err != nil {
			return
		}

		for {
			select {
			case message, ok := <-sub.Out:
				if !ok {
					conn.WriteMessage(
						websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "build topic closed"),
					)
					return
				}

				out := socketMessageOut{Kind: "build", Data: json.RawMessage(message)}
				if !json.Valid(out.Data) {
					out = socketMessageOut{Kind: "error", Err: "malformed build event"}
				}

				if err := conn.WriteJSON(out); err != nil {
					logger.Debug("Failed to write JSON to connection", log.Ctx{
						"topic": topicId.String(),
						"error": err.Error(),
					})
					return
				}

			case <-gone:
				return
			}
		}
	}
}
