package mycelium

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/mycelium-catalog/mycelium/pkg/configs/server"
	"github.com/mycelium-catalog/mycelium/pkg/domain/datacontract"
	dbInterface "github.com/mycelium-catalog/mycelium/pkg/domain/mycelium/db"
	"github.com/mycelium-catalog/mycelium/pkg/domain/mycelium/db/postgres"
	"github.com/mycelium-catalog/mycelium/pkg/domain/template"
)

type Mycelium interface {
	DataContract() datacontract.Interface
	Template() template.Interface

	// Probe checks the database is reachable.
	Probe(context.Context) error

	// Bootstrap creates tables which are not present.
	Bootstrap(context.Context) error

	Close() error
}

type mycelium struct {
	db           dbInterface.Database
	dataContract datacontract.Interface
	template     template.Interface
}

// Default connects to the database and opens the template catalog, as configured.
func Default(
	ctx context.Context,
	config *server.Config,
	options ...Option,
) (Mycelium, error) {
	opt := &_options{}
	for _, o := range options {
		o(opt)
	}

	db, err := postgres.New(ctx, config.Database().URL(), opt.pg...)
	if err != nil {
		return nil, err
	}
	return New(db, template.New(config.Templates().Directory(), opt.template...)), nil
}

// New assembles services on db and templates.
//
// db is closed by Close of the returned Mycelium.
func New(db dbInterface.Database, templates template.Interface) Mycelium {
	return &mycelium{
		db:           db,
		dataContract: datacontract.New(db, db.DataContract()),
		template:     templates,
	}
}

type Option func(*_options)

type _options struct {
	pg       []postgres.Option
	template []template.Option
}

func WithLogger(logger *log.Logger) Option {
	return func(o *_options) {
		o.pg = append(o.pg, postgres.WithLogger(logger))
		o.template = append(o.template, template.WithLogger(logger))
	}
}

func (m *mycelium) DataContract() datacontract.Interface {
	return m.dataContract
}

func (m *mycelium) Template() template.Interface {
	return m.template
}

func (m *mycelium) Probe(ctx context.Context) error {
	return m.db.Probe(ctx)
}

func (m *mycelium) Bootstrap(ctx context.Context) error {
	return m.db.Bootstrap(ctx)
}

func (m *mycelium) Close() error {
	return m.db.Close()
}
