package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"faculty-connect/internal/api/router"
	"faculty-connect/internal/config"
	"faculty-connect/internal/infrastructure/database"
	"faculty-connect/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	port string
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server for the faculty selection system.
Serves the student submission endpoints and the admin dashboard API.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port for the server to listen on")
}

func startServer() {
	cfg := config.Get()

	// Override port if flag is provided
	if port != "8080" {
		cfg.Server.Port = port
	}

	db := connectDatabase(cfg)

	components, err := router.NewRouter(db)
	if err != nil {
		logger.Fatal("Failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        components.Router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	components.QueueService.StopWorkers()

	// Give server 5 seconds to finish current requests
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// connectDatabase returns nil when no database host is configured; the
// router falls back to the in-memory submission repository in that case.
func connectDatabase(cfg *config.Config) *gorm.DB {
	if cfg.Database.Host == "" {
		logger.Warn("No database host configured, running without persistence")
		return nil
	}

	db, err := database.NewConnection(database.ConfigFromApp(&cfg.Database))
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	return db
}
