package arff

import (
	"bufio"
	"io"
	"strings"

	"github.com/teranos/ceka/errors"
)

// Decode reads an ARFF document.
// Supports the dense subset: @relation, @attribute (nominal, numeric, real,
// integer, string, date) and @data rows. Keywords are case-insensitive.
func Decode(r io.Reader) (*Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	d := &Dataset{}
	inData := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}

		if inData {
			if strings.HasPrefix(line, "{") {
				return nil, errors.NewUnsupportedError("line %d: sparse rows are not supported", lineNo)
			}
			values, err := splitValues(line)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			if len(values) != len(d.Attributes) {
				return nil, errors.Newf("line %d: row has %d values, header declares %d attributes",
					lineNo, len(values), len(d.Attributes))
			}
			d.Rows = append(d.Rows, values)
			continue
		}

		keyword, rest := splitKeyword(line)
		switch strings.ToLower(keyword) {
		case "@relation":
			name, _, err := readToken(rest)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: relation name", lineNo)
			}
			d.Relation = name
		case "@attribute":
			attr, err := parseAttribute(rest)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			d.Attributes = append(d.Attributes, attr)
		case "@data":
			inData = true
		default:
			return nil, errors.Newf("line %d: unexpected header line %q", lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read ARFF input")
	}
	if !inData {
		return nil, errors.New("missing @data section")
	}
	return d, nil
}

func splitKeyword(line string) (string, string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx:])
}

func parseAttribute(spec string) (Attribute, error) {
	name, rest, err := readToken(spec)
	if err != nil {
		return Attribute{}, errors.Wrap(err, "attribute name")
	}
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndex(rest, "}")
		if end < 0 {
			return Attribute{}, errors.Newf("attribute %s: unterminated nominal list", name)
		}
		inner := strings.TrimSpace(rest[1:end])
		if inner == "" {
			return NominalAttribute(name), nil
		}
		values, err := splitValues(inner)
		if err != nil {
			return Attribute{}, errors.Wrapf(err, "attribute %s", name)
		}
		return NominalAttribute(name, values...), nil
	}

	typeName, format := splitKeyword(rest)
	switch strings.ToLower(typeName) {
	case "numeric", "real", "integer":
		return Attribute{Name: name, Kind: Numeric, TypeName: strings.ToLower(typeName)}, nil
	case "string":
		return Attribute{Name: name, Kind: String}, nil
	case "date":
		f, _, err := readToken(format)
		if err != nil && format != "" {
			return Attribute{}, errors.Wrapf(err, "attribute %s date format", name)
		}
		return Attribute{Name: name, Kind: Date, Format: f}, nil
	case "":
		return Attribute{}, errors.Newf("attribute %s: missing type", name)
	default:
		return Attribute{}, errors.NewUnsupportedError("attribute %s: type %q is not supported", name, typeName)
	}
}

// readToken reads one bare or quoted token and returns the remainder
func readToken(s string) (string, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", errors.New("expected a name")
	}
	if s[0] == '\'' || s[0] == '"' {
		value, n, err := readQuoted(s)
		if err != nil {
			return "", "", err
		}
		return value, s[n:], nil
	}
	end := strings.IndexAny(s, " \t{")
	if end < 0 {
		return s, "", nil
	}
	return s[:end], s[end:], nil
}

// readQuoted reads a quoted value starting at s[0] and returns the unquoted
// text plus the number of bytes consumed
func readQuoted(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case c == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errors.Newf("unterminated quote in %q", s)
}

// splitValues splits a comma-separated list of bare or quoted values
func splitValues(s string) ([]string, error) {
	var values []string
	i := 0
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i < len(s) && (s[i] == '\'' || s[i] == '"') {
			value, n, err := readQuoted(s[i:])
			if err != nil {
				return nil, err
			}
			values = append(values, value)
			i += n
			for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
				i++
			}
			if i < len(s) && s[i] != ',' {
				return nil, errors.Newf("unexpected %q after quoted value", s[i])
			}
		} else {
			end := strings.IndexByte(s[i:], ',')
			if end < 0 {
				end = len(s) - i
			}
			values = append(values, strings.TrimSpace(s[i:i+end]))
			i += end
		}
		if i >= len(s) {
			return values, nil
		}
		i++ // comma
	}
}
