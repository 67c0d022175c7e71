package runner

import (
	"context"

	"github.com/teranos/ceka/cli"
	"github.com/teranos/ceka/params"
	"github.com/teranos/ceka/sqlimport"
)

// Import parameter keys
const (
	ParamMinRange         = "min-range"
	ParamMaxRange         = "max-range"
	ParamFirstColumnNull  = "first-column-null"
	ParamSecondColumnNull = "second-column-null"
	ParamTable            = "table"
)

// Import reads a relational table into a dataset file
type Import struct {
	Options cli.Options
}

func (Import) executor() {}

// ImportSettings are the tunables decoded from sql parameters
type ImportSettings struct {
	MinRange         int
	MaxRange         int
	FirstColumnNull  bool
	SecondColumnNull bool
	Table            string
}

// DefaultImportSettings returns the settings used when no parameter applies
func DefaultImportSettings() ImportSettings {
	return ImportSettings{MinRange: -1, MaxRange: -1, SecondColumnNull: true}
}

func importSettings(env Env, decoded map[string]string) ImportSettings {
	s := DefaultImportSettings()
	scratch := s

	b, err := params.Bind(decoded,
		params.Int(ParamMinRange, &scratch.MinRange),
		params.Int(ParamMaxRange, &scratch.MaxRange),
		params.Bool(ParamFirstColumnNull, &scratch.FirstColumnNull),
		params.Bool(ParamSecondColumnNull, &scratch.SecondColumnNull),
		params.String(ParamTable, &scratch.Table),
	)
	if err != nil {
		env.verbosef("%v", err)
	} else {
		s = scratch
		for _, k := range b.Unknown {
			env.Log.Debugf("Parameter %s is not supported for SQL building!", k)
		}
	}

	if b.Applied < 5 {
		env.verbosef("Parameter set was not full! Probably using default parameters for SQL building!")
	}
	return s
}

// Run imports the table, checks it and saves it to the output path
func (im Import) Run(ctx context.Context, env Env) error {
	opts := im.Options
	s := importSettings(env, opts.Decoded)

	ds, err := env.Importer.Import(ctx, sqlimport.Request{
		Connection:       opts.ConnectionString,
		Columns:          append([]string(nil), opts.Columns...),
		Table:            s.Table,
		MinRange:         s.MinRange,
		MaxRange:         s.MaxRange,
		FirstColumnNull:  s.FirstColumnNull,
		SecondColumnNull: s.SecondColumnNull,
	})
	if err != nil {
		return err
	}

	if err := ds.IntegrityCheck(); err != nil {
		return err
	}

	env.Log.Debugw("Saving imported dataset", "relation", ds.Relation, "rows", ds.Len(), "output", opts.OutputFile)
	return env.Store.Save(ds, opts.OutputFile)
}
