package server

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed reload.js
var reloadClient []byte

func sendJson(c *gin.Context, statusCode int, data interface{}) {
	if strings.HasPrefix(c.GetHeader("User-Agent"), "curl/") {
		buf, err := json.MarshalIndent(data, "", "\t")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(statusCode, "application/json", buf)
	} else {
		c.JSON(statusCode, data)
	}
}

// StaticFiles serves root with caching disabled, so a reload always picks up
// the latest build.
func StaticFiles(root string) gin.HandlerFunc {
	files := http.FileServer(http.Dir(root))

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Status(http.StatusMethodNotAllowed)
			return
		}

		c.Header("Cache-Control", "no-store")
		files.ServeHTTP(c.Writer, c.Request)
	}
}

func (server *Server) loadRoutes() {
	server.router.GET(ReloadRoute, server.reloadHandler())
	server.router.GET(ClientRoute, func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "text/javascript; charset=utf-8", reloadClient)
	})
	server.router.GET(TopicsRoute, func(c *gin.Context) {
		sendJson(c, http.StatusOK, server.Registry.GetTopicInfo())
	})

	root := server.Root
	if root == "" {
		root = "."
	}
	server.router.NoRoute(StaticFiles(root))
}
