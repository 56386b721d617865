package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/atlas-cli/internal/classify"
	"github.com/sells-group/atlas-cli/internal/engine"
	"github.com/sells-group/atlas-cli/internal/raster"
	"github.com/sells-group/atlas-cli/internal/shapefile"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin ingestion server",
	Long: `Serves the decode engine over HTTP for the admin panel: POST the raw upload
bytes to /v1/decode/shapefile or /v1/decode/raster and receive the decoded
output contracts as JSON. The engine stays a pure in-process transformation;
nothing is stored server-side.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng := engine.New(cfg)

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/v1/decode/shapefile", func(w http.ResponseWriter, req *http.Request) {
			data, ok := readUpload(w, req)
			if !ok {
				return
			}
			result, err := eng.ProcessShapefile(req.Context(), data)
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, result)
		})

		r.Post("/v1/decode/raster", func(w http.ResponseWriter, req *http.Request) {
			data, ok := readUpload(w, req)
			if !ok {
				return
			}
			result, err := eng.ProcessRaster(req.Context(), data)
			if err != nil {
				respondError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, result)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("ingestion server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default: from config)")
	rootCmd.AddCommand(serveCmd)
}

// readUpload reads the request body up to the configured size cap.
func readUpload(w http.ResponseWriter, req *http.Request) ([]byte, bool) {
	body := http.MaxBytesReader(w, req.Body, cfg.Engine.MaxUploadBytes)
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		respondJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large"})
		return nil, false
	}
	if len(data) == 0 {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "empty upload"})
		return nil, false
	}
	return data, true
}

// respondError maps decode failures to client errors; anything unrecognized
// is a 500.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shapefile.ErrMissingComponent),
		errors.Is(err, shapefile.ErrMalformedHeader),
		errors.Is(err, raster.ErrMalformedRaster),
		errors.Is(err, raster.ErrNoValidSamples),
		errors.Is(err, classify.ErrInvalidClassification):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, raster.ErrUnsupportedRaster):
		status = http.StatusUnsupportedMediaType
	}

	zap.L().Warn("decode request failed", zap.Int("status", status), zap.Error(err))
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
