package database

import (
	"database/sql"
	"fmt"

	"bookapp/internal/config"
	"bookapp/package/logger"

	_ "github.com/lib/pq"
)

func Init(config *config.Config) *sql.DB {
	logger.Log.Info(fmt.Sprintf("Connecting to host=%s port=%d user=%s dbname=%s",
		config.Storage.Host, config.Storage.Port, config.Storage.Username, config.Storage.Database))
	psqlconn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		config.Storage.Host, config.Storage.Port, config.Storage.Username, config.Storage.Password, config.Storage.Database)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		logger.Log.Error(err)
		logger.Log.Fatal("Can not connect to database")
	}

	if err = db.Ping(); err != nil {
		logger.Log.Error(err)
		logger.Log.Fatal("Can not connect to database")
	}

	logger.Log.Info("Connected to database")
	return db
}
