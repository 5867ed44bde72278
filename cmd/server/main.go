package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gotak/addrdb/pkg/extract"
	addrhttp "github.com/gotak/addrdb/pkg/http"
	"github.com/gotak/addrdb/pkg/logger"
	"github.com/gotak/addrdb/pkg/store"

	"go.uber.org/zap"
)

var (
	dbPath       = flag.String("db", "output/virginia.db", "region store to serve")
	manifestPath = flag.String("manifest", "", "manifest path (defaults to manifest.json next to the store)")
	listenAddr   = flag.String("listenaddr", "", `listen address (e.g. ":8080", overrides API_PORT)`)
)

func main() {
	flag.Parse()

	zlog, cleanup, err := logger.New()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if err := store.Verify(*dbPath); err != nil {
		zlog.Fatal("store failed verification", zap.String("db", *dbPath), zap.Error(err))
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		zlog.Fatal("open store", zap.Error(err))
	}
	defer s.Close()

	mPath := *manifestPath
	if mPath == "" {
		mPath = filepath.Join(filepath.Dir(*dbPath), "manifest.json")
	}

	service := addrhttp.NewStoreService(s, extract.DefaultCategories(), mPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := addrhttp.ConfigFromEnv()
	config.Addr = *listenAddr

	if err := addrhttp.Run(ctx, config, service, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
