// Command odonto-devserver serves an in-memory admin API for local use of
// the console.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/odonto/internal/devserver"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	addr := flag.String("addr", ":3000", "listen address")
	latency := flag.Duration("latency", 0, "delay added to every response, e.g. 400ms")
	empty := flag.Bool("empty", false, "start without seed data")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              *addr,
		Handler:           devserver.New(devserver.Options{Latency: *latency, Empty: *empty}).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[HTTP] msg=\"listening\" addr=%s latency=%s", *addr, *latency)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[HTTP] msg=\"server failed\" err=%v", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[HTTP] msg=\"shutdown failed\" err=%v", err)
			return 1
		}
		log.Printf("[HTTP] msg=\"stopped\"")
	}
	return 0
}
