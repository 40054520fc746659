package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"team-synapse/backend/internal/graph"
	"team-synapse/backend/internal/ingest"
	"team-synapse/backend/pkg/config"
	"team-synapse/backend/pkg/logger"
)

// ingestService is the slice of the ingestion pipeline the API uses
type ingestService interface {
	Process(ctx context.Context, analysis graph.AnalysisRecord) ingest.Result
	ProcessBatch(ctx context.Context, analyses []graph.AnalysisRecord, parallelism int) []ingest.Result
}

// graphQuerier is the read surface of the graph repository
type graphQuerier interface {
	ActionItemsByPerson(ctx context.Context, tenantID, personName string) []graph.ActionItemSummary
	MeetingsByProject(ctx context.Context, tenantID, projectName string) []graph.MeetingSummary
	ClientRelationships(ctx context.Context, tenantID, clientName string) []graph.ClientRelationship
	KnowledgeGraphSummary(ctx context.Context, tenantID string) graph.GraphSummary
	SearchMeetings(ctx context.Context, tenantID, term string, limit int) []graph.MeetingSummary
	FindBlockers(ctx context.Context, tenantID string) []graph.BlockedItem
	HistoricalContext(ctx context.Context, tenantID, topic string, days int) []graph.HistoricalMeeting
	TeamHealth(ctx context.Context, tenantID string) graph.TeamHealthReport
}

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize graph repository (creates and verifies the Neo4j driver)
	ctx := context.Background()
	repo, err := graph.NewRepository(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	defer repo.Close(context.Background())

	pipeline := ingest.NewPipeline(repo)

	router := setupRouter(cfg, pipeline, repo, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func setupRouter(cfg *config.Config, pipeline ingestService, querier graphQuerier, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Tenant-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Ingest one analyzed meeting
		api.POST("/meetings", func(c *gin.Context) {
			var analysis graph.AnalysisRecord
			if err := c.ShouldBindJSON(&analysis); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			analysis.TenantID = tenantID(c, cfg)

			result := pipeline.Process(c.Request.Context(), analysis)
			c.JSON(http.StatusOK, result)
		})

		// Ingest a batch of analyzed meetings
		api.POST("/meetings/batch", func(c *gin.Context) {
			var analyses []graph.AnalysisRecord
			if err := c.ShouldBindJSON(&analyses); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tenant := tenantID(c, cfg)
			for i := range analyses {
				analyses[i].TenantID = tenant
			}

			results := pipeline.ProcessBatch(c.Request.Context(), analyses, cfg.BatchParallelism)
			c.JSON(http.StatusOK, gin.H{"results": results})
		})

		api.GET("/graph/summary", func(c *gin.Context) {
			summary := querier.KnowledgeGraphSummary(c.Request.Context(), tenantID(c, cfg))
			c.JSON(http.StatusOK, summary)
		})

		api.GET("/actions/:person", func(c *gin.Context) {
			items := querier.ActionItemsByPerson(c.Request.Context(), tenantID(c, cfg), c.Param("person"))
			c.JSON(http.StatusOK, gin.H{"actionItems": items})
		})

		api.GET("/projects/:name/meetings", func(c *gin.Context) {
			meetings := querier.MeetingsByProject(c.Request.Context(), tenantID(c, cfg), c.Param("name"))
			c.JSON(http.StatusOK, gin.H{"meetings": meetings})
		})

		// Client relationships; ?name= narrows to one client
		api.GET("/clients", func(c *gin.Context) {
			clients := querier.ClientRelationships(c.Request.Context(), tenantID(c, cfg), c.Query("name"))
			c.JSON(http.StatusOK, gin.H{"clients": clients})
		})

		api.GET("/meetings/search", func(c *gin.Context) {
			term := c.Query("q")
			if term == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
				return
			}
			limit := intQuery(c, "limit", 10)

			meetings := querier.SearchMeetings(c.Request.Context(), tenantID(c, cfg), term, limit)
			c.JSON(http.StatusOK, gin.H{"meetings": meetings})
		})

		api.GET("/blockers", func(c *gin.Context) {
			blockers := querier.FindBlockers(c.Request.Context(), tenantID(c, cfg))
			c.JSON(http.StatusOK, gin.H{"blockers": blockers})
		})

		api.GET("/context", func(c *gin.Context) {
			topic := c.Query("topic")
			if topic == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'topic' is required"})
				return
			}
			days := intQuery(c, "days", 30)

			meetings := querier.HistoricalContext(c.Request.Context(), tenantID(c, cfg), topic, days)
			c.JSON(http.StatusOK, gin.H{"meetings": meetings})
		})

		api.GET("/team/health", func(c *gin.Context) {
			report := querier.TeamHealth(c.Request.Context(), tenantID(c, cfg))
			c.JSON(http.StatusOK, report)
		})
	}

	return router
}

// tenantID resolves the caller's tenant from the X-Tenant-ID header,
// falling back to the configured default
func tenantID(c *gin.Context, cfg *config.Config) string {
	if tenant := c.GetHeader("X-Tenant-ID"); tenant != "" {
		return tenant
	}
	return cfg.DefaultTenantID
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// requestID tags each request with an id for log correlation
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}
