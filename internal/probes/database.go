package probes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/statuscore-dev/statuscore/internal/types"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// CheckDatabase opens a fresh connection to the configured database
// and pings it. The connection is not pooled; each probe run measures
// a full connect + ping round trip.
func CheckDatabase(config *types.DatabaseProbeConfig) error {
	timeout := config.Timeout

	if timeout == 0 {
		timeout = 10
	}

	driver, dsn, err := buildDSN(config)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s connection: %w", driver, err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s at %s:%d: %w", driver, config.Host, config.Port, err)
	}
	return nil
}

func buildDSN(config *types.DatabaseProbeConfig) (driver, dsn string, err error) {
	switch config.Type {
	case "postgres", "postgresql":
		sslMode := config.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			config.Host, config.Port, config.Username, config.Password, config.Database, sslMode)
		return "postgres", dsn, nil
	case "mysql":
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			config.Username, config.Password, config.Host, config.Port, config.Database)
		return "mysql", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database type: %s", config.Type)
	}
}
