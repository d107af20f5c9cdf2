package main

import (
	"net/http"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yumyai/ggsynteny/logger"
	"github.com/yumyai/ggsynteny/pkg/config"
	mydb "github.com/yumyai/ggsynteny/pkg/db"
	"github.com/yumyai/ggsynteny/pkg/handler"
	"github.com/yumyai/ggsynteny/pkg/middle"
)

const VERSION = "0.1.0"

func main() {

	// Establish logger at info until the configuration says otherwise
	if err := logger.InitLogger(zapcore.InfoLevel); err != nil {
		panic(err)
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	var cfg *config.Config
	var cfgErr error
	if len(os.Args) > 1 {
		cfg, cfgErr = config.Load(os.Args[1])
	} else {
		cfg, cfgErr = config.FromEnv()
	}
	if cfgErr != nil {
		logger.Fatal("Invalid configuration", zap.Error(cfgErr))
	}

	if cfg.LogLevel != zapcore.InfoLevel {
		if err := logger.InitLogger(cfg.LogLevel); err != nil {
			panic(err)
		}
	}

	store, err := mydb.Open(cfg.DBPath)
	if err != nil {
		logger.Fatal("Cannot open database", zap.String("DB_LOC", cfg.DBPath), zap.Error(err))
	}
	defer store.Close()

	dbctx := &handler.DBContext{
		Store:  store,
		Config: cfg,
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Open database on", zap.String("DB_LOC", cfg.DBPath))
	logger.Info("Serving tables from", zap.String("DATA_DIR", cfg.DataDir))

	mux := handler.NewRouter(dbctx)

	// Apply middleware
	app := middle.Chain(mux,
		middle.RequestIDMiddleware(logger.L()),
		middle.LoggingMiddleware(logger.L()),
	)

	logger.Info("Server starting on " + cfg.ListenAddr)
	httpErr := http.ListenAndServe(cfg.ListenAddr, app)
	if httpErr != nil {
		logger.Error("Error starting server:", zap.String("error message", httpErr.Error()))
	}
}
