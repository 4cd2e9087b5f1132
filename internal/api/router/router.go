package router

import (
	"context"
	"time"

	"faculty-connect/internal/api/handlers"
	"faculty-connect/internal/api/middleware"
	"faculty-connect/internal/catalog"
	"faculty-connect/internal/config"
	"faculty-connect/internal/infrastructure/queue"
	"faculty-connect/internal/infrastructure/repository"
	"faculty-connect/internal/infrastructure/slotstore"
	interfaces "faculty-connect/internal/interfaces/infrastructure"
	"faculty-connect/internal/service"
	"faculty-connect/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouterComponents bundles the engine with the pieces the server command
// has to shut down explicitly.
type RouterComponents struct {
	Router       *gin.Engine
	QueueService interfaces.QueueService
}

// NewRouter builds the full application: catalog, slot store, repositories,
// sync queue, services, handlers and routes. Pass a nil db to run entirely
// in memory (no durable submissions, no counter mirror).
func NewRouter(db *gorm.DB) (*RouterComponents, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(cors.Default())
	r.Use(gin.Recovery())

	cfg := config.Get()

	cat, err := catalog.New(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	var slots interfaces.SlotStore
	if cfg.Store.Type == "memory" {
		slots = slotstore.NewMemorySlotStore(cat)
		logger.Info("Using in-memory slot store")
	} else {
		slots = slotstore.NewRedisSlotStoreWithConfig(&cfg.Cache, cat)
		logger.Info("Using Redis slot store")
	}

	var submissionRepo interfaces.SubmissionRepository
	var counterRepo interfaces.SlotCounterRepository
	if db != nil {
		submissionRepo = repository.NewSubmissionRepository(db)
		counterRepo = repository.NewSlotCounterRepository(db)
	} else {
		submissionRepo = repository.NewMemorySubmissionRepository()
		logger.Warn("No database configured, submissions are not durable")
	}

	queueService := queue.NewInMemoryQueue(cfg.Queue.BufferSize, cfg.Queue.Workers)

	selectionService := service.NewSelectionService(cat, slots, submissionRepo, counterRepo, queueService)
	adminService := service.NewAdminService(cat, slots, submissionRepo, queueService)

	queueService.SetSelectionService(selectionService)
	queueService.StartWorkers()

	if counterRepo != nil {
		warmSlotStore(slots, counterRepo)
	}

	submissionHandler := handlers.NewSubmissionHandler(selectionService)
	adminHandler := handlers.NewAdminHandler(adminService)
	healthHandler := handlers.NewHealthHandler()

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/submissions", submissionHandler.Submit)
		v1.GET("/slots", submissionHandler.GetSlots)

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(&cfg.Admin))
		{
			admin.GET("/submissions", adminHandler.ListSubmissions)
			admin.GET("/submissions/export", adminHandler.ExportSubmissions)
			admin.DELETE("/submissions/:roll_number", adminHandler.DeleteSubmission)
			admin.POST("/slots/reset", adminHandler.ResetSlots)
		}
	}

	return &RouterComponents{
		Router:       r,
		QueueService: queueService,
	}, nil
}

// warmSlotStore seeds counters from the last persisted mirror so a restart
// does not reopen seats that were already taken. Only counters with no live
// value are touched.
func warmSlotStore(slots interfaces.SlotStore, counterRepo interfaces.SlotCounterRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counters, err := counterRepo.GetAll(ctx)
	if err != nil {
		logger.Warn("Failed to load persisted slot counters: %v", err)
		return
	}
	if len(counters) == 0 {
		return
	}

	values := make(map[string]int, len(counters))
	for _, counter := range counters {
		values[counter.Key] = counter.Remaining
	}

	if err := slots.WarmMissing(ctx, values); err != nil {
		logger.Warn("Failed to warm slot store from persisted counters: %v", err)
		return
	}
	logger.Info("Warmed slot store with %d persisted counters", len(values))
}
