package runner

import (
	"context"
	"strconv"
	"strings"

	"github.com/teranos/ceka/arff"
	"github.com/teranos/ceka/cli"
	"github.com/teranos/ceka/errors"
)

// Transform applies one refinement function to the input dataset in place
type Transform struct {
	Options cli.Options
}

func (Transform) executor() {}

// Run loads the dataset, applies the function and reports the result.
// A failing function is reported, not returned, and leaves the file untouched.
func (t Transform) Run(ctx context.Context, env Env) error {
	opts := t.Options

	ds, err := env.Store.Load(opts.InputFile)
	if err != nil {
		return err
	}

	res := Result{Code: 1, Message: MessageNone}
	code, err := apply(ds, opts.Function, opts.Parameters)
	if err != nil {
		env.verbosef("Failed to execute function, have you defined enough params? ('-p=param1 -p=param2'); %v", err)
		res = Result{Code: 0, Message: err.Error()}
	} else if code > 0 {
		res.Code = code
	}

	env.Log.Debugw("Transform finished", "function", opts.Function, "result", res.Code)

	if res.Succeeded() {
		if err := env.Store.Save(ds, opts.InputFile); err != nil {
			return err
		}
	}
	return res.Report(env.Stdout)
}

// apply runs fn on ds. A positive code replaces the default success code.
func apply(ds *arff.Dataset, fn string, p []string) (int64, error) {
	switch fn {
	case cli.FuncRemovePerAttributeValue:
		if err := want(fn, p, 2); err != nil {
			return 0, err
		}
		_, err := ds.RemoveByAttributeValue(p[0], p[1])
		return 0, err

	case cli.FuncRebuildAttributeAsRanged:
		n, err := ints(fn, p, 2)
		if err != nil {
			return 0, err
		}
		return 0, ds.RebuildRange(n[0], n[1])

	case cli.FuncRemovePatternMatchRows:
		if len(p) == 0 {
			return 0, errors.Newf("%s expects at least 1 parameter, got 0", fn)
		}
		_, err := ds.DeletePatternRows(p)
		return 0, err

	case cli.FuncRemoveUnusedValues:
		ds.RemoveUnusedValues()
		return 0, nil

	case cli.FuncRefineAllRangedAttributes:
		n, err := ints(fn, p, 2)
		if err != nil {
			return 0, err
		}
		return 0, ds.RefineRanged(n[0], n[1])

	case cli.FuncGetMemorySize:
		return ds.MemorySize(), nil
	}
	return 0, errors.NewUnsupportedError("function %s is not supported", fn)
}

func want(fn string, p []string, n int) error {
	if len(p) < n {
		return errors.Newf("%s expects %d parameters, got %d", fn, n, len(p))
	}
	return nil
}

func ints(fn string, p []string, n int) ([]int, error) {
	if err := want(fn, p, n); err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(p[i]))
		if err != nil {
			return nil, errors.Newf("%s parameter %d: %q is not an integer", fn, i+1, p[i])
		}
		out[i] = v
	}
	return out, nil
}
