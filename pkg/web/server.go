package web

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server は HTTP サーバーのライフサイクルを管理します。
type Server struct {
	httpServer *http.Server
}

// NewServer はポートとハンドラーから Server を作成します。
// 書き込みタイムアウトは外部サービスの呼び出し時間より長く取ります。
func NewServer(port string, handler http.Handler, requestTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			MaxHeaderBytes:    1 << 20,
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 3 * time.Second,
			WriteTimeout:      requestTimeout + 10*time.Second,
			IdleTimeout:       60 * time.Second,
			TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
			ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		},
	}
}

// Run はサーバーを起動し、Shutdown されるまでブロックします。
func (s *Server) Run() error {
	slog.Info("HTTPサーバーを起動します", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown は処理中のリクエストの完了を待ってからサーバーを停止します。
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewRouter はルーティングとミドルウェアを設定した gin.Engine を返します。
func NewRouter(h *Handler, analyzeTimeout time.Duration) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger())
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	router.GET("/", h.Index)
	router.POST("/analyze", Timeout(analyzeTimeout), h.AnalyzeForm)

	api := router.Group("/api/v1")
	api.POST("/analyze", Timeout(analyzeTimeout), h.AnalyzeAPI)

	router.GET("/health", h.Health)
	return router
}
