package apriori

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/teranos/ceka/errors"
)

// Format selects how a Result is written
type Format int

const (
	JSON Format = iota
	JSONPretty
	Weka
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "JSON"
	case JSONPretty:
		return "JSON_PRETTY"
	case Weka:
		return "WEKA"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Extension is the file suffix used for f when the output path has none
func (f Format) Extension() string {
	if f == Weka {
		return ".txt"
	}
	return ".json"
}

// OutputPath derives the result file from path: a trailing .arff is dropped
// and the format's extension is added when no other extension remains.
func OutputPath(path string, f Format) string {
	if strings.EqualFold(filepath.Ext(path), ".arff") {
		path = path[:len(path)-len(".arff")]
	}
	if filepath.Ext(path) == "" {
		path += f.Extension()
	}
	return path
}

// Write renders res in format f
func Write(w io.Writer, res *Result, f Format) error {
	switch f {
	case JSON:
		return writeJSON(w, res, "")
	case JSONPretty:
		return writeJSON(w, res, "  ")
	case Weka:
		return writeWeka(w, res)
	default:
		return errors.NewUnsupportedError("output format %s is not supported", f)
	}
}

func writeJSON(w io.Writer, res *Result, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(res); err != nil {
		return errors.Wrap(err, "failed to encode mining result")
	}
	return nil
}

// writeWeka mimics the associator section of Weka's Explorer output
func writeWeka(w io.Writer, res *Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "=== Run information ===")
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Relation:     %s\n", res.Relation)
	fmt.Fprintf(bw, "Instances:    %d\n", res.Instances)
	fmt.Fprintf(bw, "Attributes:   %d\n", res.Attributes)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "=== Associator model ===")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Apriori")
	fmt.Fprintln(bw, "=======")
	fmt.Fprintln(bw)

	if res.ApplySupport {
		fmt.Fprintf(bw, "Minimum support: %s (%d instances)\n", short(res.Support), res.MinCount)
	} else {
		fmt.Fprintf(bw, "Minimum support: not applied (lower bound %s, %d instances)\n", short(LowerBoundSupport), res.MinCount)
	}
	if res.ApplyConfidence {
		fmt.Fprintf(bw, "Minimum metric <confidence>: %s\n", short(res.Confidence))
	} else {
		fmt.Fprintln(bw, "Minimum metric <confidence>: not applied")
	}
	if res.MaxItems > 0 {
		fmt.Fprintf(bw, "Maximum itemset size: %d\n", res.MaxItems)
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Generated sets of large itemsets:")
	fmt.Fprintln(bw)
	for i, size := range res.LargeItemsets {
		fmt.Fprintf(bw, "Size of set of large itemsets L(%d): %d\n", i+1, size)
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw, "Best rules found:")
	fmt.Fprintln(bw)
	if len(res.Rules) == 0 {
		fmt.Fprintln(bw, " No rules found!")
	}
	width := len(strconv.Itoa(len(res.Rules)))
	for i, r := range res.Rules {
		fmt.Fprintf(bw, " %*d. %s %d ==> %s %d    <conf:(%s)>\n",
			width, i+1,
			strings.Join(r.Antecedent, " "), r.AntecedentCount,
			strings.Join(r.Consequent, " "), r.Count,
			short(r.Confidence))
	}
	return bw.Flush()
}

// short formats x rounded to two decimals without trailing zeros
func short(x float64) string {
	return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64)
}
