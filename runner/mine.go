package runner

import (
	"context"

	"github.com/teranos/ceka/apriori"
	"github.com/teranos/ceka/cli"
	"github.com/teranos/ceka/errors"
	"github.com/teranos/ceka/params"
)

// Apriori parameter keys and defaults
const (
	ParamSupport         = "support"
	ParamConfidence      = "confidence"
	ParamApplySupport    = "apply-support"
	ParamApplyConfidence = "apply-confidence"

	DefaultSupport    = 0.1
	DefaultConfidence = 0.1
)

// outputTypes maps a mine output type to its format and whether it goes to a file
var outputTypes = map[string]struct {
	format apriori.Format
	toFile bool
}{
	"json":             {apriori.JSON, false},
	"json-pretty":      {apriori.JSONPretty, false},
	"weka":             {apriori.Weka, false},
	"json-file":        {apriori.JSON, true},
	"json-file-pretty": {apriori.JSONPretty, true},
	"weka-file":        {apriori.Weka, true},
}

// Mine runs an association miner over the input dataset
type Mine struct {
	Options cli.Options
}

func (Mine) executor() {}

// AprioriSettings are the tunables decoded from mine parameters
type AprioriSettings struct {
	Support         float64
	Confidence      float64
	ApplySupport    bool
	ApplyConfidence bool
}

// DefaultAprioriSettings returns the settings used when no parameter applies
func DefaultAprioriSettings() AprioriSettings {
	return AprioriSettings{Support: DefaultSupport, Confidence: DefaultConfidence}
}

// aprioriSettings binds decoded onto the defaults. A value that fails to
// parse discards every decoded value.
func aprioriSettings(env Env, decoded map[string]string) AprioriSettings {
	s := DefaultAprioriSettings()
	scratch := s

	b, err := params.Bind(decoded,
		params.Float(ParamSupport, &scratch.Support),
		params.Float(ParamConfidence, &scratch.Confidence),
		params.Bool(ParamApplySupport, &scratch.ApplySupport),
		params.Bool(ParamApplyConfidence, &scratch.ApplyConfidence),
	)
	if err != nil {
		env.verbosef("%v", err)
	} else {
		s = scratch
		for _, k := range b.Unknown {
			env.Log.Debugf("Parameter %s is not supported for Apriori algorithm!", k)
		}
	}

	if b.Applied < 4 {
		env.verbosef("Parameter set was not full! Probably using default parameters for Apriori!")
	}
	return s
}

// Run loads the input, mines it and writes the result
func (m Mine) Run(ctx context.Context, env Env) error {
	opts := m.Options
	s := aprioriSettings(env, opts.Decoded)

	path := opts.InputFile
	if cli.IsSet(opts.OutputFile) {
		path = opts.OutputFile
	}

	ot, ok := outputTypes[opts.OutputType]
	if !ok {
		return errors.AssertionFailedf("output type %q passed validation", opts.OutputType)
	}

	ds, err := env.Store.Load(opts.InputFile)
	if err != nil {
		return err
	}

	env.Log.Debugw("Running miner",
		"algorithm", opts.Algorithm,
		"input", opts.InputFile,
		"output", path,
		"output_type", opts.OutputType,
	)
	return env.Miner.Mine(ctx, ds, apriori.Config{
		Support:         s.Support,
		Confidence:      s.Confidence,
		ApplySupport:    s.ApplySupport,
		ApplyConfidence: s.ApplyConfidence,
		Format:          ot.format,
		ToStdout:        !ot.toFile,
		Path:            path,
	})
}
