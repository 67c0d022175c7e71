package arff

import (
	"bufio"
	"io"
	"strings"
)

// Encode writes d as an ARFF document
func Encode(w io.Writer, d *Dataset) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("@relation ")
	bw.WriteString(quote(d.Relation))
	bw.WriteString("\n\n")

	for _, a := range d.Attributes {
		bw.WriteString("@attribute ")
		bw.WriteString(quote(a.Name))
		bw.WriteByte(' ')
		bw.WriteString(typeSpec(a))
		bw.WriteByte('\n')
	}

	bw.WriteString("\n@data\n")
	for _, row := range d.Rows {
		for i, v := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quoteValue(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func typeSpec(a Attribute) string {
	switch a.Kind {
	case Nominal:
		quoted := make([]string, len(a.Values))
		for i, v := range a.Values {
			quoted[i] = quote(v)
		}
		return "{" + strings.Join(quoted, ",") + "}"
	case Numeric:
		if a.TypeName != "" {
			return a.TypeName
		}
		return "numeric"
	case Date:
		if a.Format != "" {
			return "date " + quote(a.Format)
		}
		return "date"
	default:
		return "string"
	}
}

func quoteValue(v string) string {
	if v == Missing {
		return v
	}
	return quote(v)
}

// quote wraps s in single quotes when it would not survive as a bare token
func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t,'\"{}%\\") && s != Missing {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('\'')
	return b.String()
}
