package database

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/divluffy/lightforgaza/config"
)

// DB is the shared GORM handle, set by Connect.
var DB *gorm.DB

// Connect opens the MySQL connection with secure defaults, pooling and retry.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	if DB != nil {
		return DB, nil
	}

	dbc := cfg.DB
	dsn := dbc.DSN

	if dsn == "" {
		params := dbc.Params
		// Ensure TLS/timeout params are present to enforce encrypted
		// connections and bounded waits.
		if !strings.Contains(params, "tls=") {
			if dbc.TLS == "true" || dbc.TLS == "preferred" {
				if dbc.TLSVerify {
					params = params + "&tls=custom"
				} else {
					params = params + "&tls=true"
				}
			}
		}
		if !strings.Contains(params, "timeout=") {
			params = params + "&timeout=10s"
		}
		if !strings.Contains(params, "readTimeout=") {
			params = params + "&readTimeout=10s"
		}
		if !strings.Contains(params, "writeTimeout=") {
			params = params + "&writeTimeout=10s"
		}

		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", dbc.User, dbc.Pass, dbc.Host, dbc.Port, dbc.Name, params)
	}

	safeDSN := dsn
	if dbc.Pass != "" {
		safeDSN = strings.Replace(safeDSN, dbc.Pass, "******", 1)
	}
	log.Printf("[database] using DSN: %s", safeDSN)

	// Strict certificate validation is registered under the name "custom"
	// and referenced from the DSN.
	if strings.Contains(dsn, "tls=custom") {
		tlsCfg := &tls.Config{}
		if dbc.TLSCAPath != "" {
			caCert, err := os.ReadFile(dbc.TLSCAPath)
			if err != nil {
				return nil, fmt.Errorf("failed reading DB TLS CA file: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return nil, errors.New("failed to append CA certs")
			}
			tlsCfg.RootCAs = pool
		}
		if err := mysqldriver.RegisterTLSConfig("custom", tlsCfg); err != nil {
			return nil, err
		}
	}

	var gormLogger logger.Interface
	if cfg.Development() {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	maxRetries := dbc.ConnectRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	var db *gorm.DB
	var err error
	backoff := time.Second
	for attempt := 0; attempt < maxRetries; attempt++ {
		db, err = gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: gormLogger})
		if err == nil {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(dbc.MaxOpenConns)
	sqlDB.SetMaxIdleConns(dbc.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(dbc.ConnMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	DB = db
	return DB, nil
}
