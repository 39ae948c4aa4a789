package configs

import (
	"fmt"
	"log/slog"
	"net"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	dbMaxRetries = 10
	dbRetryDelay = 5 * time.Second
)

func mysqlDSN(env ENV) string {
	cfg := mysqldriver.NewConfig()
	cfg.User = env.DBUser
	cfg.Passwd = env.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(env.DBHost, env.DBPort)
	cfg.DBName = env.DBName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// OpenConnection dials MySQL, retrying while the database comes up.
func OpenConnection(env ENV) (*gorm.DB, error) {
	dsn := mysqlDSN(env)

	var lastErr error
	for i := 0; i < dbMaxRetries; i++ {
		slog.Info("OpenConnection: connecting to database", "attempt", i+1, "max", dbMaxRetries, "host", env.DBHost, "db", env.DBName)

		db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					slog.Info("OpenConnection: database connection established")
					return db, nil
				}
			}
			lastErr = pingErr
			slog.Warn("OpenConnection: ping failed", "err", pingErr, "retry_in", dbRetryDelay)
		} else {
			lastErr = err
			slog.Warn("OpenConnection: open failed", "err", err, "retry_in", dbRetryDelay)
		}

		time.Sleep(dbRetryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries: %w", dbMaxRetries, lastErr)
}
