// Package runner dispatches validated options to the executor of their
// mode and reports the outcome.
package runner

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/teranos/ceka/apriori"
	"github.com/teranos/ceka/arff"
	"github.com/teranos/ceka/cli"
	"github.com/teranos/ceka/errors"
	"github.com/teranos/ceka/sqlimport"
)

// Store loads and saves datasets
type Store interface {
	Load(path string) (*arff.Dataset, error)
	Save(ds *arff.Dataset, path string) error
}

// Miner mines a dataset and delivers the result
type Miner interface {
	Mine(ctx context.Context, ds *arff.Dataset, cfg apriori.Config) error
}

// Importer builds a dataset from a relational table
type Importer interface {
	Import(ctx context.Context, req sqlimport.Request) (*arff.Dataset, error)
}

// Env is everything an executor needs besides its options
type Env struct {
	Log      *zap.SugaredLogger
	Verbose  bool
	Stdout   io.Writer
	Store    Store
	Miner    Miner
	Importer Importer
}

// NewEnv wires the default collaborators
func NewEnv(log *zap.SugaredLogger, verbose bool, stdout io.Writer, driver string) Env {
	return Env{
		Log:      log,
		Verbose:  verbose,
		Stdout:   stdout,
		Store:    arff.FileStore{},
		Miner:    apriori.NewMiner(stdout, log),
		Importer: sqlimport.NewImporter(driver, log),
	}
}

// verbosef warns only when the run is verbose
func (e Env) verbosef(template string, args ...interface{}) {
	if e.Verbose {
		e.Log.Warnf(template, args...)
	}
}

// Executor runs one mode. The set is closed: Mine, Transform and Import.
type Executor interface {
	Run(ctx context.Context, env Env) error
	executor()
}

// Dispatch selects the executor for opts.Route
func Dispatch(opts cli.Options) (Executor, error) {
	switch opts.Route {
	case cli.RouteMine:
		return Mine{Options: opts}, nil
	case cli.RouteTransform:
		return Transform{Options: opts}, nil
	case cli.RouteImport:
		return Import{Options: opts}, nil
	default:
		return nil, errors.AssertionFailedf("no executor for route %d", int(opts.Route))
	}
}
