package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qrattend/internal/attendance"
	"qrattend/internal/config"
	"qrattend/internal/export"
	"qrattend/internal/httpmiddleware"
	"qrattend/internal/metrics"
	"qrattend/internal/qrcode"
	"qrattend/internal/report"
	"qrattend/internal/roster"
	"qrattend/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect failed: %w", err)
	}
	defer db.Close()

	if err := store.Setup(context.Background(), db.Client); err != nil {
		return err
	}

	rosterSvc := roster.NewService(roster.NewRepository(db.Client))
	recorder := attendance.NewRecorder(rosterSvc, attendance.NewRepository(db.Client))
	reports := report.NewAggregator(report.NewRepository(db.Client))

	// Rate limiting is in-memory unless a shared budget across instances is
	// needed, in which case the redis backend takes over.
	var redisClient *store.Redis
	var limiter httpmiddleware.Limiter
	if cfg.RateLimitBackend == "redis" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		limiter = httpmiddleware.NewRedisLimiter(redisClient.Client, cfg.RateLimitPerMin)
	} else {
		limiter = httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.RateLimit(limiter))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		body := gin.H{"status": "ok", "db": dbHealthy}
		if redisClient != nil {
			redisHealthy := redisClient.Healthy(c.Request.Context())
			body["redis"] = redisHealthy
			if !redisHealthy {
				status = http.StatusServiceUnavailable
			}
		}
		c.JSON(status, body)
	})

	r.POST("/v1/students", func(c *gin.Context) {
		var req struct {
			Name        string `json:"name" binding:"required"`
			RegNo       string `json:"reg_no" binding:"required"`
			Department  string `json:"department" binding:"required"`
			ParentPhone string `json:"parent_phone" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		st, err := rosterSvc.Register(c.Request.Context(), req.Name, req.RegNo, req.Department, req.ParentPhone)
		var verr *roster.ValidationError
		switch {
		case errors.As(err, &verr):
			metrics.Registrations.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.Is(err, roster.ErrDuplicateRegNo):
			metrics.Registrations.WithLabelValues("duplicate").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case err != nil:
			metrics.Registrations.WithLabelValues("error").Inc()
			c.JSON(storeErrorStatus(err), gin.H{"error": "registration failed"})
		default:
			metrics.Registrations.WithLabelValues("registered").Inc()
			c.JSON(http.StatusCreated, gin.H{"student": st})
		}
	})

	r.GET("/v1/students", func(c *gin.Context) {
		students, err := rosterSvc.List(c.Request.Context())
		if err != nil {
			c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"students": students})
	})

	r.GET("/v1/students/:barcode/qr", func(c *gin.Context) {
		st, err := rosterSvc.ByBarcode(c.Request.Context(), c.Param("barcode"))
		if err != nil {
			c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		if st == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		png, err := qrcode.Encode(st.Barcode, cfg.QRSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "qr encode failed"})
			return
		}
		filename := strings.ReplaceAll(st.Name, " ", "_") + "_QR.png"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "image/png", png)
	})

	r.POST("/v1/checkins", func(c *gin.Context) {
		var req struct {
			Barcode string `json:"barcode" binding:"required"`
			At      string `json:"at"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		at := time.Now()
		if req.At != "" {
			parsed, err := time.Parse(time.RFC3339, req.At)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "at must be RFC 3339"})
				return
			}
			at = parsed
		}

		res, err := recorder.Record(c.Request.Context(), req.Barcode, at)
		if err != nil {
			metrics.Checkins.WithLabelValues("error", "").Inc()
			c.JSON(storeErrorStatus(err), gin.H{"error": "check-in failed"})
			return
		}

		metrics.Checkins.WithLabelValues(string(res.Kind), string(res.Record.Status)).Inc()
		switch res.Kind {
		case attendance.UnknownIdentifier:
			c.JSON(http.StatusNotFound, res)
		case attendance.AlreadyRecorded:
			c.JSON(http.StatusOK, res)
		default:
			c.JSON(http.StatusCreated, res)
		}
	})

	r.GET("/v1/reports/summary", func(c *gin.Context) {
		start, end, dept, ok := reportFilters(c)
		if !ok {
			return
		}
		summary, err := reports.Summary(c.Request.Context(), start, end, dept)
		if err != nil {
			c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	})

	r.GET("/v1/reports/entries", func(c *gin.Context) {
		start, end, dept, ok := reportFilters(c)
		if !ok {
			return
		}
		entries, err := reports.Entries(c.Request.Context(), start, end, dept)
		if err != nil {
			c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		if c.Query("format") == "csv" {
			filename := fmt.Sprintf("attendance_report_%s_to_%s.csv", start, end)
			c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
			c.Header("Content-Type", "text/csv")
			if err := export.Entries(c.Writer, entries); err != nil {
				log.Printf("csv export failed: %v", err)
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	})

	r.GET("/v1/reports/students", func(c *gin.Context) {
		stats, err := reports.StudentStats(c.Request.Context())
		if err != nil {
			c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		if c.Query("format") == "csv" {
			filename := "students_list_" + time.Now().Format("20060102") + ".csv"
			c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
			c.Header("Content-Type", "text/csv")
			if err := export.StudentStats(c.Writer, stats); err != nil {
				log.Printf("csv export failed: %v", err)
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"students": stats})
	})

	r.GET("/v1/reports/recent", func(c *gin.Context) {
		limit := 10
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				limit = parsed
			}
		}
		entries, err := reports.Recent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"entries": entries})
	})

	r.GET("/v1/dashboard", func(c *gin.Context) {
		today := c.Query("date")
		if today == "" {
			today = time.Now().Format(attendance.DateLayout)
		}
		dash, err := reports.Dashboard(c.Request.Context(), today)
		if err != nil {
			c.JSON(storeErrorStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, dash)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// reportFilters pulls the shared range/department query params, writing the
// error response itself when they are invalid.
func reportFilters(c *gin.Context) (start, end string, dept roster.Department, ok bool) {
	today := time.Now().Format(attendance.DateLayout)
	start = c.DefaultQuery("start", today)
	end = c.DefaultQuery("end", today)
	if raw := c.Query("department"); raw != "" {
		parsed, err := roster.ParseDepartment(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return "", "", "", false
		}
		dept = parsed
	}
	return start, end, dept, true
}

// storeErrorStatus maps store connectivity failures to 503, everything else
// to 500.
func storeErrorStatus(err error) int {
	if errors.Is(err, store.ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
