package rpcserver

// Copyright 2024 the opsmgr-dash authors
//
// This file is part of opsmgr-dash.
//
// opsmgr-dash is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, version 2 of the License.
//
// opsmgr-dash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/secure"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/opsmgr-dash/opsmgr-dash/config"
	"github.com/opsmgr-dash/opsmgr-dash/logger"
	"github.com/opsmgr-dash/opsmgr-dash/multi"
	"github.com/opsmgr-dash/opsmgr-dash/opts"
)

type GinWriteInterceptor struct {
	gin.ResponseWriter
	responseBody *bytes.Buffer
}

func (gwi *GinWriteInterceptor) WriteString(str string) (int, error) {
	gwi.responseBody.WriteString(str)
	return gwi.ResponseWriter.WriteString(str)
}

func (gwi *GinWriteInterceptor) Write(bs []byte) (int, error) {
	gwi.responseBody.Write(bs)
	return gwi.ResponseWriter.Write(bs)
}

func WebRpcDebugMiddleware(c *gin.Context) {
	log := zap.L().Sugar()
	start := time.Now()

	// we need to replace the writer to be able to capture the response body
	bodyWriter := &GinWriteInterceptor{
		ResponseWriter: c.Writer,
		responseBody:   bytes.NewBufferString(""),
	}
	c.Writer = bodyWriter

	log.Debugf("Web request [%s] %s %s",
		c.ClientIP(), c.Request.Method, c.Request.RequestURI)

	c.Next()

	elapsed := time.Since(start)
	log.Debugf("Web reply   [%s] (elapsed: %dms) status %d:\n%s",
		c.ClientIP(), int64(elapsed/time.Millisecond), c.Copy().Writer.Status(), bodyWriter.responseBody.String())
}

func sessionsMiddleware(cfg *config.Config) gin.HandlerFunc {
	secret := cfg.SessionSecret
	if len(secret) < 1 {
		// filter stickiness only lasts until restart then, which is fine
		secret = xid.New().String()
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 24,
		HttpOnly: true,
	})
	return sessions.Sessions("opsmgr-dash", store)
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	}
	if len(cfg.FrontendUrl) > 0 {
		corsConfig.AllowOrigins = []string{cfg.FrontendUrl}
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	return cors.New(corsConfig)
}

// Start is starting the service
func Start() {
	opts.Init()
	if !opts.Opts.DebugWebRpc {
		gin.SetMode(gin.ReleaseMode)
	}

	configFile := path.Join(opts.Opts.BaseDir, "opsmgr-dash.json")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		configFile = path.Join(opts.Opts.BaseDir, "opsmgr-dash.yaml")
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		// we have nice default values from ::Load() method
		zap.L().Sugar().Warnf("configfile problem: %s", err.Error())
	}

	// get logger only after we have loaded the configuration
	log := zap.L()

	s := gin.New()
	s.Use(ginzap.RecoveryWithZap(log, true))
	s.Use(logger.GinZapFunc())
	s.Use(corsMiddleware(cfg))
	s.Use(gzip.Gzip(gzip.DefaultCompression))
	s.Use(secure.New(secure.Config{
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		FrameDeny:          true,
	}))
	s.Use(sessionsMiddleware(cfg))
	s.NoMethod(func(c *gin.Context) { c.JSON(http.StatusMethodNotAllowed, gin.H{"err": "method not allowed"}) })

	if opts.Opts.DebugWebRpc {
		s.Use(WebRpcDebugMiddleware)
	}

	zap.L().Info("Starting RPC service")

	dashboard, err := multi.New(cfg)
	if err != nil {
		log.Sugar().Fatalf("initialization problem: %s", err.Error())
	}

	v1 := s.Group("/v1")
	{
		v1.GET("/backup", dashboard.RPCBackupList)
		v1.POST("/backup", dashboard.RPCBackupList)

		v1.GET("/monitoring", dashboard.RPCMonitoringList)
		v1.POST("/monitoring", dashboard.RPCMonitoringList)

		v1.GET("/backup-storage", dashboard.RPCStorageList)
		v1.POST("/backup-storage", dashboard.RPCStorageList)

		v1.GET("/status", dashboard.RPCStatus)
		v1.POST("/status", dashboard.RPCStatus)
		v1.GET("/status/history", dashboard.RPCStatusHistory)

		v1.GET("/sources", dashboard.RPCSources)
	}

	hs := &http.Server{
		Handler:      s,
		Addr:         ":" + strconv.Itoa(cfg.Port),
		ReadTimeout:  time.Second * 180,
		WriteTimeout: time.Second * 180,
		IdleTimeout:  time.Second * 180,
	}
	signals := make(chan os.Signal, 1)
	signal.Notify(signals,
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGHUP)
	go func() {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Second*5)
		defer cancel()
		for sig := range signals {
			log.Sugar().Infof("Shutting down (%s)", sig.String())
			if err := hs.Shutdown(ctx); err != nil && err != context.DeadlineExceeded {
				log.Sugar().Fatalf("Failed to shutdown (%s): %s", sig.String(), err.Error())
			}
		}
	}()

	log.Sugar().Infof("Listening on %s", hs.Addr)
	if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Sugar().Fatalf("HTTP server failure: %s", err.Error())
	}
}
