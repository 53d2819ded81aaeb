// Command sottod is a development directory and transport server for sotto
// clients. It holds published public keys and per-user mailboxes in memory,
// pushes envelopes over websockets, and runs the remote retention janitor.
// It never sees plaintext.
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func main() {
	var (
		addr   = flag.String("addr", ":8080", "listen address")
		grace  = flag.Duration("grace", time.Minute, "retention after delivery")
		maxAge = flag.Duration("max-age", 24*time.Hour, "retention for undelivered envelopes")
		sweep  = flag.Duration("sweep", 30*time.Second, "janitor interval")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	srv := newServer(logger, *grace, *maxAge)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go srv.runJanitor(ctx, *sweep)

	r := mux.NewRouter()
	r.HandleFunc("/v1/keys/{user}", srv.putKey).Methods(http.MethodPut)
	r.HandleFunc("/v1/keys/{user}", srv.getKey).Methods(http.MethodGet)
	r.HandleFunc("/v1/messages", srv.postMessage).Methods(http.MethodPost)
	r.HandleFunc("/v1/stream", srv.stream).Methods(http.MethodGet)

	httpSrv := &http.Server{Addr: *addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("sottod listening", zap.String("addr", *addr))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("serve", zap.Error(err))
	}
}
