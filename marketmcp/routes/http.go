package routes

import (
	"context"
	"fmt"
	"io"
	"marketmcp/marketmcp/controllers"
	"marketmcp/marketmcp/utils/jsonutils"
	"marketmcp/marketmcp/utils/logging"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}
		body, err := jsonutils.Marshal(res)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}
}

// NewRouter serves the tool protocol over HTTP. Tool failures still answer
// 200 with an error envelope, as on stdio.
func NewRouter(ctrl *controllers.ToolsController, health *controllers.HealthController) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Mount("/health", HealthRoutes(health))
	r.Mount("/", ToolRoutes(ctrl))
	return r
}

func ToolRoutes(ctrl *controllers.ToolsController) chi.Router {
	r := chi.NewRouter()

	r.Get("/tools", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.ListTools(), http.StatusOK, nil
	}))

	// POST /invoke takes the same object as one stdio line
	r.Post("/invoke", handleJSON(func(r *http.Request) (any, int, error) {
		body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, MaxLineBytes))
		if err != nil {
			return nil, http.StatusRequestEntityTooLarge, err
		}
		return ctrl.Handle(r.Context(), body), http.StatusOK, nil
	}))

	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		conn.SetReadLimit(MaxLineBytes)
		ctrl.ToolsWebSocket(r.Context(), conn)
	})

	return r
}

func HealthRoutes(ctrl *controllers.HealthController) chi.Router {
	r := chi.NewRouter()
	r.Get("/", ctrl.HealthCheck)
	return r
}

// requestLogger sends access logs to request.log instead of stdout.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.RequestLogger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)))
	})
}

// ListenAndServe runs handler on addr until ctx is cancelled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.AppLogger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	logging.AppLogger.Info("server shutdown complete")
	return nil
}
