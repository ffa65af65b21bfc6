package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/edirooss/kvstore/internal/glob"
	"github.com/edirooss/kvstore/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// adminServer is the read-only HTTP diagnostics surface (SPEC_FULL's
// supplement to the RESP protocol): /healthz, /debug/info, /debug/keys. It
// never mutates the keyspace; every write operation stays on the RESP port.
type adminServer struct {
	log    *zap.Logger
	db     *store.Database
	httpsv *http.Server
}

// zapLoggerMiddleware logs each admin request with structured fields.
func zapLoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		var errs []error
		for _, ge := range c.Errors {
			if ge.Err != nil {
				errs = append(errs, ge.Err)
			}
		}
		joinedErr := errors.Join(errs...)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("client_ip", c.ClientIP()),
			zap.Duration("latency", latency),
		}
		if joinedErr != nil {
			fields = append(fields, zap.Error(joinedErr))
		}

		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func newAdminServer(log *zap.Logger, db *store.Database, addr string) *adminServer {
	log = log.Named("admin")
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})
	r.Use(gin.Recovery())

	r.Use(secure.New(secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	if os.Getenv("ENV") == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(zapLoggerMiddleware(log))

	a := &adminServer{log: log, db: db}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/debug/info", func(c *gin.Context) {
		stats := db.Stats()
		rows := make([]gin.H, 0, len(stats.Namespaces))
		for _, ns := range stats.Namespaces {
			rows = append(rows, gin.H{"db": ns.Index, "keys": ns.Keys, "expires": ns.Expires})
		}
		c.JSON(http.StatusOK, gin.H{
			"generated_at": stats.GeneratedAt.UnixMilli(),
			"namespaces":   rows,
		})
	})

	r.GET("/debug/keys", func(c *gin.Context) {
		pattern := c.DefaultQuery("match", "*")
		ns, err := strconv.Atoi(c.DefaultQuery("db", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid db"})
			return
		}

		keys, err := db.Keys(ns, func(key string) bool { return glob.Match(pattern, key) })
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.Header("X-Total-Count", strconv.Itoa(len(keys)))
		c.JSON(http.StatusOK, keys)
	})

	a.httpsv = &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 15,
		ErrorLog:       zap.NewStdLog(log.WithOptions(zap.AddCallerSkip(1))),
	}
	return a
}

// Run serves admin HTTP traffic until ctx is canceled, then shuts the
// server down gracefully.
func (a *adminServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("admin http listening", zap.String("addr", a.httpsv.Addr))
		err := a.httpsv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.httpsv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

