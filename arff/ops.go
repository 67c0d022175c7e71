package arff

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/ceka/errors"
)

// RemoveByAttributeValue deletes every row whose value for attr equals value.
// Returns the number of rows removed.
func (d *Dataset) RemoveByAttributeValue(attr, value string) (int, error) {
	idx := d.AttributeIndex(attr)
	if idx < 0 {
		return 0, errors.Newf("unknown attribute %q", attr)
	}

	kept := d.Rows[:0]
	removed := 0
	for _, row := range d.Rows {
		if row[idx] == value {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	d.Rows = kept
	return removed, nil
}

// RebuildRange turns the attribute at index into a nominal attribute of
// width-sized buckets labelled "a..b". The attribute must be numeric or
// nominal with numeric values only. Missing values stay missing.
func (d *Dataset) RebuildRange(index, width int) error {
	if index < 0 || index >= len(d.Attributes) {
		return errors.Newf("attribute index %d out of range [0, %d)", index, len(d.Attributes))
	}
	if width <= 0 {
		return errors.Newf("range width must be positive, got %d", width)
	}
	attr := &d.Attributes[index]
	if attr.Kind != Numeric && attr.Kind != Nominal {
		return errors.Newf("attribute %s is %s, expected numeric or nominal", attr.Name, attr.Kind)
	}
	if attr.Kind == Nominal {
		for _, v := range attr.Values {
			if _, ok := bucketValue(v); !ok {
				return errors.Newf("attribute %s declares non-numeric value %q", attr.Name, v)
			}
		}
	}

	// Compute every label before touching rows so a bad value leaves d intact
	labels := make([]string, len(d.Rows))
	used := map[int]bool{}
	for i, row := range d.Rows {
		v := row[index]
		if v == Missing {
			labels[i] = Missing
			continue
		}
		f, ok := bucketValue(v)
		if !ok {
			return errors.Newf("row %d: %q is not a finite number within ±2^53", i, v)
		}
		start, ok := bucketStart(f, width)
		if !ok {
			return errors.Newf("row %d: bucket of %q with width %d is out of range", i, v, width)
		}
		used[start] = true
		labels[i] = rangeLabel(start, start+width-1)
	}

	starts := make([]int, 0, len(used))
	for s := range used {
		starts = append(starts, s)
	}
	sort.Ints(starts)

	values := make([]string, len(starts))
	for i, s := range starts {
		values[i] = rangeLabel(s, s+width-1)
	}

	for i, row := range d.Rows {
		row[index] = labels[i]
	}
	*attr = NominalAttribute(attr.Name, values...)
	return nil
}

// maxBucketValue bounds the values RebuildRange buckets. Integers up to it
// are exact in float64.
const maxBucketValue = 1 << 53

// bucketValue parses v as a finite number within ±maxBucketValue
func bucketValue(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxBucketValue {
		return 0, false
	}
	return f, true
}

// bucketStart returns the first value of f's bucket; false when the bucket
// bounds do not fit
func bucketStart(f float64, width int) (int, bool) {
	start := math.Floor(f/float64(width)) * float64(width)
	if math.Abs(start) > maxBucketValue {
		return 0, false
	}
	s := int(start)
	if s > math.MaxInt-(width-1) {
		return 0, false
	}
	return s, true
}

// RefineRanged narrows every ranged attribute (one whose declared values are
// all "a..b" labels) to the buckets overlapping [lo, hi]. Values in dropped
// buckets become missing.
func (d *Dataset) RefineRanged(lo, hi int) error {
	if lo > hi {
		return errors.Newf("lower bound %d is greater than upper bound %d", lo, hi)
	}

	for idx := range d.Attributes {
		attr := &d.Attributes[idx]
		if !isRanged(*attr) {
			continue
		}

		keep := map[string]bool{}
		var values []string
		for _, v := range attr.Values {
			a, b, _ := parseRange(v)
			if a <= hi && b >= lo {
				keep[v] = true
				values = append(values, v)
			}
		}
		for _, row := range d.Rows {
			if row[idx] != Missing && !keep[row[idx]] {
				row[idx] = Missing
			}
		}
		attr.Values = values
	}
	return nil
}

// DeletePatternRows deletes rows matching any pattern. A pattern is a
// comma-separated row template with one field per attribute; "*" matches
// any value. Returns the number of rows removed.
func (d *Dataset) DeletePatternRows(patterns []string) (int, error) {
	templates := make([][]string, 0, len(patterns))
	for _, p := range patterns {
		fields, err := splitValues(p)
		if err != nil {
			return 0, errors.Wrapf(err, "pattern %q", p)
		}
		if len(fields) != len(d.Attributes) {
			return 0, errors.Newf("pattern %q has %d fields, dataset has %d attributes", p, len(fields), len(d.Attributes))
		}
		templates = append(templates, fields)
	}

	kept := d.Rows[:0]
	removed := 0
	for _, row := range d.Rows {
		if matchesAny(row, templates) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	d.Rows = kept
	return removed, nil
}

// RemoveUnusedValues drops declared nominal values no row uses.
// Returns the number of declarations removed.
func (d *Dataset) RemoveUnusedValues() int {
	removed := 0
	for idx := range d.Attributes {
		attr := &d.Attributes[idx]
		if attr.Kind != Nominal {
			continue
		}
		used := map[string]bool{}
		for _, row := range d.Rows {
			used[row[idx]] = true
		}
		values := attr.Values[:0]
		for _, v := range attr.Values {
			if used[v] {
				values = append(values, v)
			} else {
				removed++
			}
		}
		attr.Values = values
	}
	return removed
}

// MemorySize returns the number of bytes d occupies in its ARFF encoding
func (d *Dataset) MemorySize() int64 {
	var cw countingWriter
	_ = Encode(&cw, d)
	return cw.n
}

// IntegrityCheck verifies that every row agrees with the header
func (d *Dataset) IntegrityCheck() error {
	if strings.TrimSpace(d.Relation) == "" {
		return errors.NewIntegrityError("relation has no name")
	}
	if len(d.Attributes) == 0 {
		return errors.NewIntegrityError("relation %s declares no attributes", d.Relation)
	}

	seen := make(map[string]bool, len(d.Attributes))
	for _, a := range d.Attributes {
		if strings.TrimSpace(a.Name) == "" {
			return errors.NewIntegrityError("relation %s has an unnamed attribute", d.Relation)
		}
		if seen[a.Name] {
			return errors.NewIntegrityError("attribute %s is declared twice", a.Name)
		}
		seen[a.Name] = true
	}

	for i, row := range d.Rows {
		if len(row) != len(d.Attributes) {
			return errors.NewIntegrityError("row %d has %d values, expected %d", i, len(row), len(d.Attributes))
		}
		for j, v := range row {
			if v == Missing {
				continue
			}
			a := d.Attributes[j]
			switch a.Kind {
			case Nominal:
				if !a.declares(v) {
					return errors.NewIntegrityError("row %d: %q is not a declared value of %s", i, v, a.Name)
				}
			case Numeric:
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return errors.NewIntegrityError("row %d: %q is not numeric for %s", i, v, a.Name)
				}
			}
		}
	}
	return nil
}

func matchesAny(row []string, templates [][]string) bool {
	for _, tpl := range templates {
		match := true
		for i, field := range tpl {
			if field != "*" && field != row[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func rangeLabel(a, b int) string {
	return fmt.Sprintf("%d..%d", a, b)
}

func parseRange(label string) (int, int, bool) {
	idx := strings.Index(label, "..")
	if idx <= 0 {
		return 0, 0, false
	}
	a, err := strconv.Atoi(label[:idx])
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.Atoi(label[idx+2:])
	if err != nil {
		return 0, 0, false
	}
	return a, b, a <= b
}

func isRanged(a Attribute) bool {
	if a.Kind != Nominal || len(a.Values) == 0 {
		return false
	}
	for _, v := range a.Values {
		if _, _, ok := parseRange(v); !ok {
			return false
		}
	}
	return true
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}

var _ io.Writer = (*countingWriter)(nil)
