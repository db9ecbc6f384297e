// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"net/http"

	"github.com/deppfellow/repertoire/internal/handler"
	"github.com/deppfellow/repertoire/internal/metrics"
	"github.com/deppfellow/repertoire/internal/middleware"
	"github.com/deppfellow/repertoire/internal/model"
	"github.com/deppfellow/repertoire/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the middleware chain and every route.
//
// Middleware order matters: the request id must exist before the tracing
// and logging middleware read it, and the request logger must wrap Recover
// so panics are logged with their final status.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		metrics.Middleware(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)
	registerComposerRoutes(router, h)
	registerPieceRoutes(router, h)

	return router
}

func registerComposerRoutes(r *echo.Echo, h *handler.Handlers) {
	composers := r.Group("/composers")

	composers.GET("", handler.Handle[model.ListComposersRequest](h.Composer.Handler, h.Composer.List, http.StatusOK))
	composers.POST("", handler.Handle[model.CreateComposerRequest](h.Composer.Handler, h.Composer.Create, http.StatusCreated))
	composers.PUT("/:id", handler.Handle[model.UpdateComposerRequest](h.Composer.Handler, h.Composer.Update, http.StatusOK))
	composers.DELETE("/:id", handler.Handle[model.DeleteComposerRequest](h.Composer.Handler, h.Composer.Delete, http.StatusOK))
}

func registerPieceRoutes(r *echo.Echo, h *handler.Handlers) {
	pieces := r.Group("/pieces")

	pieces.GET("", handler.Handle[model.ListPiecesRequest](h.Piece.Handler, h.Piece.List, http.StatusOK))
	pieces.POST("", handler.Handle[model.CreatePieceRequest](h.Piece.Handler, h.Piece.Create, http.StatusCreated))
	pieces.PUT("/:name", handler.Handle[model.UpdatePieceRequest](h.Piece.Handler, h.Piece.Update, http.StatusOK))
	pieces.DELETE("/:name", handler.Handle[model.DeletePieceRequest](h.Piece.Handler, h.Piece.Delete, http.StatusOK))
}
