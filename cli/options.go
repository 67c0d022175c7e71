// Package cli turns raw command line values into a validated, immutable
// Options value and decides which executor may run.
package cli

import "strings"

// Mode is the operating mode selected with -m
type Mode string

const (
	ModeMine      Mode = "mine"
	ModeTransform Mode = "arff"
	ModeImport    Mode = "sql"
)

// Route is the routing code produced by a successful validation
type Route int

const (
	RouteNone      Route = 0
	RouteMine      Route = 1
	RouteTransform Route = 2
	RouteImport    Route = 3
)

// String returns the executor name for r
func (r Route) String() string {
	switch r {
	case RouteMine:
		return "mine"
	case RouteTransform:
		return "transform"
	case RouteImport:
		return "import"
	default:
		return "none"
	}
}

// Supported algorithms for mine mode
var SupportedAlgorithms = []string{"apriori"}

// Supported result output types for mine mode
var SupportedOutputTypes = []string{
	"json",
	"json-file",
	"weka",
	"weka-file",
	"json-pretty",
	"json-file-pretty",
}

// Transform functions for arff mode
const (
	FuncRemovePerAttributeValue   = "removePerAttributeValue"
	FuncRebuildAttributeAsRanged  = "rebuildAttributeAsRanged"
	FuncRemovePatternMatchRows    = "removePatternMatchRows"
	FuncRemoveUnusedValues        = "removeUnusedValues"
	FuncRefineAllRangedAttributes = "refineAllRangedAttributes"
	FuncGetMemorySize             = "getMemorySize"
)

// SupportedFunctions lists every transform function
var SupportedFunctions = []string{
	FuncRemovePerAttributeValue,
	FuncRebuildAttributeAsRanged,
	FuncRemovePatternMatchRows,
	FuncRemoveUnusedValues,
	FuncRefineAllRangedAttributes,
	FuncGetMemorySize,
}

// ParameterlessFunctions may run without any -p
var ParameterlessFunctions = []string{
	FuncRemoveUnusedValues,
	FuncGetMemorySize,
}

// Raw holds flag values exactly as parsed, before validation
type Raw struct {
	Mode             string
	InputFile        string
	OutputFile       string
	Algorithm        string
	OutputType       string
	Function         string
	Parameters       []string
	ConnectionString string
	Columns          []string
	Verbose          bool
	Log              bool
	LogFile          string
	BlockWelcome     bool
}

// Options is the validated configuration for one invocation.
// Validate copies every slice and map it keeps, so an Options value shares
// no mutable state with the Raw it came from. Treat it as read-only.
type Options struct {
	Route            Route
	Mode             Mode
	InputFile        string
	OutputFile       string
	Algorithm        string
	OutputType       string
	Function         string
	Parameters       []string
	Decoded          map[string]string
	Columns          []string
	ConnectionString string
	Verbose          bool
	Log              bool
	LogFile          string
	BlockWelcome     bool
}

// IsSet reports whether s holds anything besides whitespace
func IsSet(s string) bool {
	return strings.TrimSpace(s) != ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func quoteList(list []string) string {
	quoted := make([]string, len(list))
	for i, s := range list {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}
