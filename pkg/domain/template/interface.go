package template

import (
	"context"
	"os"
	"sync"

	"github.com/labstack/gommon/log"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	"github.com/mycelium-catalog/mycelium/pkg/domain/template/files"
	"github.com/mycelium-catalog/mycelium/pkg/domain/template/store"
	xe "github.com/mycelium-catalog/mycelium/pkg/errors"
)

// Interface is the catalog of templates.
//
// Templates are read from files when the catalog is used at first.
// Changes made with Create, Update and Delete are kept only in memory.
type Interface interface {
	Get(context.Context, string) (domain.Template, error)
	List(context.Context) ([]domain.Template, error)
	Create(context.Context, domain.Template) (domain.Template, error)
	Update(context.Context, string, domain.Template) (domain.Template, error)
	Delete(context.Context, string) (domain.Template, error)

	// Directory returns the directory where template files are.
	Directory() string

	// CheckDirectory fails when the directory is not accessible.
	CheckDirectory() error
}

type impl struct {
	dir    string
	logger *log.Logger
	store  *store.Store

	mux    sync.Mutex
	loaded bool
}

type Option func(*impl)

func WithLogger(logger *log.Logger) Option {
	return func(i *impl) {
		i.logger = logger
	}
}

// New returns a catalog of templates in dir.
//
// Files are not read until the catalog is used.
func New(dir string, options ...Option) Interface {
	i := &impl{dir: dir, logger: log.New("template"), store: store.New()}
	for _, o := range options {
		o(i)
	}
	return i
}

// load reads files only once, even if it is called concurrently.
//
// When reading fails, the catalog stays unloaded and the next call tries again.
func (i *impl) load() error {
	i.mux.Lock()
	defer i.mux.Unlock()
	if i.loaded {
		return nil
	}

	templates, err := files.Load(i.dir, i.logger)
	if err != nil {
		i.logger.Errorf("failed to load templates: %s", err)
		return err
	}
	if err := i.store.BulkCreate(templates); err != nil {
		i.logger.Errorf("failed to load templates: %s", err)
		return err
	}
	i.loaded = true
	return nil
}

func (i *impl) Get(ctx context.Context, id string) (domain.Template, error) {
	if err := i.load(); err != nil {
		return domain.Template{}, err
	}
	return i.store.Get(id)
}

func (i *impl) List(ctx context.Context) ([]domain.Template, error) {
	if err := i.load(); err != nil {
		return nil, err
	}
	return i.store.List(), nil
}

func (i *impl) Create(ctx context.Context, t domain.Template) (domain.Template, error) {
	if err := i.load(); err != nil {
		return domain.Template{}, err
	}
	if err := t.Validate(); err != nil {
		return domain.Template{}, err
	}
	return i.store.Create(t)
}

func (i *impl) Update(ctx context.Context, id string, t domain.Template) (domain.Template, error) {
	if err := i.load(); err != nil {
		return domain.Template{}, err
	}
	t.Id = id
	if err := t.Validate(); err != nil {
		return domain.Template{}, err
	}
	return i.store.Update(id, t)
}

func (i *impl) Delete(ctx context.Context, id string) (domain.Template, error) {
	if err := i.load(); err != nil {
		return domain.Template{}, err
	}
	return i.store.Delete(id)
}

func (i *impl) Directory() string {
	return i.dir
}

func (i *impl) CheckDirectory() error {
	stat, err := os.Stat(i.dir)
	if err != nil {
		return xe.Wrap(err)
	}
	if !stat.IsDir() {
		return xe.New(i.dir + " is not a directory")
	}
	return nil
}
