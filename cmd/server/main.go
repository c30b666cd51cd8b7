package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/walletpnl/internal/adapter/grpc"
	"github.com/simaogato/walletpnl/internal/adapter/httpapi"
	"github.com/simaogato/walletpnl/internal/app"
	"github.com/simaogato/walletpnl/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Setup Database
	db, err := app.OpenDB(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	// 3. Initialize Services (Use Cases)
	pnlService := app.NewPnLService(cfg, db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IngestInterval > 0 {
		ingestionService := app.NewIngestionService(cfg, db)
		go func() {
			log.Printf("Periodic ingestion enabled every %s", cfg.IngestInterval)
			if err := ingestionService.RunEvery(ctx, cfg.IngestInterval); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Periodic ingestion stopped: %v", err)
			}
		}()
	}

	// 4. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(),
			grpcadapter.AuthInterceptor(cfg.APIToken),
		),
	)
	grpcadapter.RegisterWalletPnLServiceServer(grpcServer, grpcadapter.NewServer(pnlService))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", cfg.GRPCAddr, err)
	}

	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// 5. Start HTTP Server
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewServer(pnlService).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(cancel, grpcServer, httpServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(cancel context.CancelFunc, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	cancel()

	ctx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown failed: %v", err)
	}
	log.Println("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")
}
