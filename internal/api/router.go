package api

import (
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the gin router.
func SetupRouter(a *API) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/current", a.Current)
	r.GET("/current/image", a.CurrentImage)
	r.POST("/player/:action", a.PlayerAction)
	r.GET("/ws", a.WS)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// corsMiddleware allows browser widgets on other local origins to read
// the API.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Server runs the control API on a local address.
type Server struct {
	addr   string
	engine *gin.Engine
	http   *http.Server
}

// NewServer wires the API into a server on addr.
func NewServer(addr string, a *API) *Server {
	return &Server{addr: addr, engine: SetupRouter(a)}
}

// Start begins listening. A bind failure is returned so the caller can
// surface it; the rest of the process keeps running without the API.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("binding control API on %s: %w", s.addr, err)
	}
	s.http = &http.Server{Handler: s.engine}
	go func() {
		if err := s.http.Serve(ln); err != nil && err != http.ErrServerClosed {
			fmt.Printf("control API stopped: %v\n", err)
		}
	}()
	return nil
}

// Close shuts the server down.
func (s *Server) Close() error {
	if s.http == nil {
		return nil
	}
	return s.http.Close()
}
