package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"time"

	"bookapp/internal/config"
	"bookapp/internal/server"
	"bookapp/internal/server/cover"
	"bookapp/internal/server/storage"
	"bookapp/package/client/database"
	"bookapp/package/logger"

	"github.com/julienschmidt/httprouter"
)

func main() {
	cfg := config.GetConfig()

	var st storage.Storage
	switch cfg.Storage.Driver {
	case "postgres":
		logger.Log.Info("Starting database")
		db := database.Init(cfg)
		defer func(db *sql.DB) {
			if err := db.Close(); err != nil {
				logger.Log.Error("Can not close database")
			}
		}(db)

		pg := storage.NewPostgres(db)
		if err := pg.Migrate(context.Background()); err != nil {
			logger.Log.Fatal("Migration failed: ", err)
		}
		st = pg
	default:
		logger.Log.Info("Using in-memory storage")
		st = storage.NewMemory()
	}

	covers := cover.NewStore(cfg.Uploads.Dir)
	ttl := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	router := server.NewRouter(st, covers, cfg.Auth.SecretKey, ttl)

	logger.Log.Info("Starting app")
	start(router, cfg)
}

func start(router *httprouter.Router, cfg *config.Config) {
	logger.Log.Info("Starting router")
	logger.Log.Info("Listening TCP")
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.Listen.BindIp, cfg.Listen.Port))
	logger.Log.Info("Listening ", fmt.Sprintf("%s:%s", cfg.Listen.BindIp, cfg.Listen.Port))

	if err != nil {
		logger.Log.Fatal("Listener was not created")
		panic(err)
	}
	server := &http.Server{
		Handler:      router,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	err = server.Serve(listener)
	if err != nil {
		logger.Log.Fatal("Server was not created")
		panic(err)
	}
}
