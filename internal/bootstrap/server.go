package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/clubcourt/courtbook/api"
	"github.com/clubcourt/courtbook/config"
	"github.com/clubcourt/courtbook/internal/service/booking"
	"github.com/clubcourt/courtbook/internal/service/courts"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, courtSvc courts.CourtUseCase, bookingSvc booking.BookingUseCase) error {
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, courtSvc, bookingSvc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, courtSvc courts.CourtUseCase, bookingSvc booking.BookingUseCase) *gin.Engine {
	router := gin.Default()

	courtHandler := api.NewCourtHandler(courtSvc)
	courtHandler.Register(router.Group("/courts"))

	bookingHandler := api.NewBookingHandler(bookingSvc)
	bookingHandler.Register(router.Group("/bookings", api.AuthMiddleware(cfg.Auth.JWTSecret)))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
