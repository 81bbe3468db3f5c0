package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appledger "github.com/silver-g8/furniture-api-sub000/internal/application/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/domain/ledger"
	"github.com/silver-g8/furniture-api-sub000/internal/infrastructure/config"
)

// Database holds the database connection and provides methods for database operations
type Database struct {
	DB *gorm.DB
}

// NewDatabase creates a new database connection with the given configuration
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return newDatabase(cfg, gormlogger.Default.LogMode(gormlogger.Silent))
}

// NewDatabaseWithLogger creates a new database connection with a custom GORM
// logger (usually the zap-backed one from the logger package)
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger gormlogger.Interface) (*Database, error) {
	return newDatabase(cfg, gormLogger)
}

// newDatabase is the internal function that creates database connections
func newDatabase(cfg *config.DatabaseConfig, gormLogger gormlogger.Interface) (*Database, error) {
	dsn := cfg.DSN()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Ping()
}

// Stats returns database connection pool statistics and an error if unable to retrieve
func (d *Database) Stats() (ConnectionStats, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return ConnectionStats{}, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	stats := sqlDB.Stats()
	return ConnectionStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}, nil
}

// ConnectionStats holds database connection pool statistics
type ConnectionStats struct {
	MaxOpenConnections int
	OpenConnections    int
	InUse              int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	MaxIdleClosed      int64
	MaxIdleTimeClosed  int64
	MaxLifetimeClosed  int64
}

// Transaction executes a function within a database transaction
func (d *Database) Transaction(fn func(tx *gorm.DB) error) error {
	return d.DB.Transaction(fn)
}

// NewStores builds the full set of ledger stores bound to the given GORM
// handle. Pass a transaction handle to get transaction-scoped stores, or the
// root handle for read paths that need no transaction.
func NewStores(db *gorm.DB, audit ledger.AuditTrail) appledger.Stores {
	if audit == nil {
		audit = ledger.NopAuditTrail{}
	}
	return appledger.Stores{
		Invoices: NewGormInvoiceRepository(db),
		Payments: NewGormPaymentDocumentRepository(db),
		Balances: NewGormCounterpartyBalanceRepository(db),
		Audit:    audit,
		Numbers:  NewGormNumberGenerator(db),
	}
}

// GormTxRunner runs ledger operations inside one database transaction,
// handing the operation stores bound to that transaction.
type GormTxRunner struct {
	db           *Database
	auditEnabled bool
}

// NewGormTxRunner creates a transaction runner over the given database.
// When auditEnabled is false, audit entries are discarded.
func NewGormTxRunner(db *Database, auditEnabled bool) *GormTxRunner {
	return &GormTxRunner{db: db, auditEnabled: auditEnabled}
}

// InTx implements the application transaction boundary
func (r *GormTxRunner) InTx(ctx context.Context, fn func(ctx context.Context, s appledger.Stores) error) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var audit ledger.AuditTrail = ledger.NopAuditTrail{}
		if r.auditEnabled {
			audit = NewGormAuditTrail(tx)
		}
		return fn(ctx, NewStores(tx, audit))
	})
}
