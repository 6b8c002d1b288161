package postgres

import (
	"context"

	"github.com/labstack/gommon/log"
	kpool "github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/pool"
	"github.com/mycelium-catalog/mycelium/pkg/conn/db/postgres/schema"
	kdc "github.com/mycelium-catalog/mycelium/pkg/domain/datacontract/db"
	kpgdc "github.com/mycelium-catalog/mycelium/pkg/domain/datacontract/db/postgres"
	dbInterface "github.com/mycelium-catalog/mycelium/pkg/domain/mycelium/db"
	xe "github.com/mycelium-catalog/mycelium/pkg/errors"
)

type myceliumDBPostgres struct {
	pool         kpool.Pool
	logger       *log.Logger
	dataContract kdc.DataContractInterface
}

type Config struct {
	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{Logger: log.New("database")}
}

type Option func(*Config) *Config

func WithLogger(logger *log.Logger) Option {
	return func(c *Config) *Config {
		c.Logger = logger
		return c
	}
}

// New connects to the database at url.
func New(
	ctx context.Context,
	url string,
	options ...Option,
) (dbInterface.Database, error) {
	pool, err := kpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return NewWithPool(pool, options...), nil
}

// NewWithPool builds Database on a pool which is connected already.
//
// The pool is closed by Close of the returned Database.
func NewWithPool(pool kpool.Pool, options ...Option) dbInterface.Database {
	c := DefaultConfig()
	for _, option := range options {
		c = *option(&c)
	}

	return &myceliumDBPostgres{
		pool:         pool,
		logger:       c.Logger,
		dataContract: kpgdc.New(kpgdc.WithLogger(c.Logger)),
	}
}

func (m *myceliumDBPostgres) DataContract() kdc.DataContractInterface {
	return m.dataContract
}

func (m *myceliumDBPostgres) Acquire(ctx context.Context) (kpool.Conn, error) {
	return m.pool.Acquire(ctx)
}

func (m *myceliumDBPostgres) Probe(ctx context.Context) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	defer conn.Release()

	var one int
	if err := conn.QueryRow(ctx, `select 1`).Scan(&one); err != nil {
		m.logger.Errorf("database probe failed: %s", err)
		return xe.Wrap(err)
	}
	return nil
}

func (m *myceliumDBPostgres) Bootstrap(ctx context.Context) error {
	ready, err := schema.Ready(ctx, m.pool)
	if err != nil {
		return err
	}
	if ready {
		m.logger.Debug("tables are present already")
		return nil
	}
	if err := schema.Bootstrap(ctx, m.pool); err != nil {
		m.logger.Errorf("failed to create tables: %s", err)
		return err
	}
	m.logger.Info("tables are created")
	return nil
}

func (m *myceliumDBPostgres) Close() error {
	m.pool.Close()
	return nil
}
