package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/config"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/handlers"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/logger"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/middleware"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/routes"
	"github.com/rajeshkrishnamoorthy045/taskmanager/internal/store"
)

// @title        Task Manager API
// @version      1.0
// @description  CRUD API for to-do tasks.
// @BasePath     /
func main() {
	conf, err := config.Load(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logg, err := logger.New(conf)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if len(conf.Origins()) == 0 {
		logg.Fatal("ALLOWED_ORIGINS must list at least one origin")
	}

	st, err := store.Open(conf, logg)
	if err != nil {
		logg.Fatalw("open store", "error", err)
	}
	defer st.Close()

	// the table has to exist before the first request is accepted
	if err := st.EnsureSchema(context.Background()); err != nil {
		logg.Fatalw("ensure schema", "error", err)
	}

	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	middleware.Setup(r, conf.Origins(), logg)
	routes.RegisterRoutes(r, handlers.NewTaskHandler(st, logg))

	srv := &http.Server{
		Addr:    conf.Addr(),
		Handler: r,
	}

	go func() {
		logg.Infow("server running", "addr", srv.Addr, "driver", conf.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Errorw("server shutdown", "error", err)
	}
	logg.Info("server stopped")
}
