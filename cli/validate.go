package cli

import (
	"strings"

	"github.com/teranos/ceka/errors"
	"github.com/teranos/ceka/params"
)

// ValidationError is a rejected option combination.
// Message is what the user sees; Cause is set when a lower layer failed.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap exposes the cause, if any
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match ErrInvalidOption
func (e *ValidationError) Is(target error) bool {
	return target == errors.ErrInvalidOption
}

func reject(msg string) error {
	return &ValidationError{Message: msg}
}

const malformedParamsMsg = "You specified false parameters! Do it like this: -p=p1:v1 -p=p2:v2 -p=p3:v3"

// Validate checks raw against the requirements of its mode.
// Checks run in a fixed order and stop at the first failure. On failure the
// returned Options is the zero value, so nothing partially decoded leaks.
func Validate(raw Raw) (Options, error) {
	if !IsSet(raw.Mode) {
		return Options{}, reject("You have to specify a mode")
	}

	var (
		opts Options
		err  error
	)
	switch Mode(raw.Mode) {
	case ModeMine:
		opts, err = validateMine(raw)
	case ModeTransform:
		opts, err = validateTransform(raw)
	case ModeImport:
		opts, err = validateImport(raw)
	default:
		return Options{}, reject("Unknown mode! Choose between: 'mine', 'arff', 'sql'")
	}
	if err != nil {
		return Options{}, err
	}
	return opts, nil
}

func validateMine(raw Raw) (Options, error) {
	if !IsSet(raw.Algorithm) {
		return Options{}, reject("This mode requires you to specify an algorithm '-a=apriori'")
	}
	if !containsFold(SupportedAlgorithms, raw.Algorithm) {
		return Options{}, reject("The algorithm you specify is not supported! Choose from: " + strings.Join(SupportedAlgorithms, ", "))
	}
	if !IsSet(raw.InputFile) {
		return Options{}, reject("This mode requires you to specify an input file '-i=filename'")
	}
	if !IsSet(raw.OutputType) {
		return Options{}, reject("This mode requires you to specify an output type '-ot=json'")
	}
	if !contains(SupportedOutputTypes, raw.OutputType) {
		return Options{}, reject("Unknown output-type! Choose between: " + quoteList(SupportedOutputTypes))
	}
	if len(raw.Parameters) == 0 {
		return Options{}, reject("This mode requires you to specify parameters '-p=confidence:0.2 -p=support:0.3 -p=apply-confidence:false -p=apply-support:true'")
	}
	decoded, err := params.Decode(raw.Parameters)
	if err != nil {
		return Options{}, &ValidationError{Message: malformedParamsMsg, Cause: err}
	}

	opts := newOptions(raw, RouteMine)
	opts.Decoded = decoded
	return opts, nil
}

func validateTransform(raw Raw) (Options, error) {
	if !IsSet(raw.InputFile) {
		return Options{}, reject("This mode requires you to specify an input file '-i=filename'")
	}
	if !IsSet(raw.Function) {
		return Options{}, reject("This mode requires you to specify a function '-f=removePerAttributeValue'")
	}
	if !contains(SupportedFunctions, raw.Function) {
		return Options{}, reject("The function you specify is not supported! Choose from: " + strings.Join(SupportedFunctions, ", "))
	}
	if len(raw.Parameters) == 0 && !contains(ParameterlessFunctions, raw.Function) {
		return Options{}, reject("This mode requires you to specify parameters '-p=param1 -p=param2 -p=param3'")
	}
	return newOptions(raw, RouteTransform), nil
}

func validateImport(raw Raw) (Options, error) {
	if !IsSet(raw.ConnectionString) {
		return Options{}, reject("This mode requires you to specify a connection-string '-cs=SERVER=localhost;DATABASE=uhs;UID=root;PASSWORD=root;'")
	}
	if !IsSet(raw.OutputFile) {
		return Options{}, reject("This mode requires you to specify an output file '-o=uhs.arff'")
	}
	if len(raw.Parameters) == 0 {
		return Options{}, reject("This mode requires you to specify parameters '-p=table:mytable -p=min-range:-1 -p=max-range:-1 -p=first-column-null:false -p=second-column-null:true'")
	}
	decoded, err := params.Decode(raw.Parameters)
	if err != nil {
		return Options{}, &ValidationError{Message: malformedParamsMsg, Cause: err}
	}
	if len(raw.Columns) == 0 {
		return Options{}, reject("This mode requires you to specify columns '-col=column1 -col=column2 -col=column3'")
	}

	opts := newOptions(raw, RouteImport)
	opts.Decoded = decoded
	return opts, nil
}

func newOptions(raw Raw, route Route) Options {
	return Options{
		Route:            route,
		Mode:             Mode(raw.Mode),
		InputFile:        raw.InputFile,
		OutputFile:       raw.OutputFile,
		Algorithm:        raw.Algorithm,
		OutputType:       raw.OutputType,
		Function:         raw.Function,
		Parameters:       append([]string(nil), raw.Parameters...),
		Columns:          append([]string(nil), raw.Columns...),
		ConnectionString: raw.ConnectionString,
		Verbose:          raw.Verbose,
		Log:              raw.Log,
		LogFile:          raw.LogFile,
		BlockWelcome:     raw.BlockWelcome,
	}
}
