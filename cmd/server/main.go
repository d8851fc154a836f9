package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmontoya/eduassist/internal/config"
	"github.com/cmontoya/eduassist/internal/db"
	"github.com/cmontoya/eduassist/internal/httpapi"
	"github.com/cmontoya/eduassist/internal/store"
)

func main() {
	cfg := config.Load()

	gdb, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	st := store.New(gdb)

	// Retire stale conversations once per process start.
	kept, err := st.CleanupOldData(context.Background(), cfg.CleanupDays)
	if err != nil {
		log.Printf("cleanup: %v", err)
	} else {
		log.Printf("cleanup: kept %d recent conversations", kept)
	}

	router := httpapi.NewRouter(cfg, st)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("bye")
}
