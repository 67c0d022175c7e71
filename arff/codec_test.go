package arff

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ceka/errors"
	cekatest "github.com/teranos/ceka/internal/testing"
)

func TestDecode(t *testing.T) {
	t.Run("weather fixture", func(t *testing.T) {
		d, err := Decode(strings.NewReader(cekatest.WeatherARFF))
		require.NoError(t, err)

		assert.Equal(t, "weather", d.Relation)
		require.Len(t, d.Attributes, 5)
		assert.Equal(t, "outlook", d.Attributes[0].Name)
		assert.Equal(t, Nominal, d.Attributes[0].Kind)
		assert.Equal(t, []string{"sunny", "overcast", "rainy"}, d.Attributes[0].Values)
		assert.Equal(t, 14, d.Len())
		assert.Equal(t, []string{"sunny", "hot", "high", "FALSE", "no"}, d.Rows[0])
	})

	t.Run("types and quoting", func(t *testing.T) {
		src := `@RELATION 'city survey'
@ATTRIBUTE 'home town' {'new york',paris}
@attribute score REAL
@attribute note string
@attribute visited date "yyyy-MM-dd"
@attribute empty {}
@DATA
'new york', 1.5, 'it\'s fine', 2024-01-01, ?
paris,?,"quoted, with comma",?,?
`
		d, err := Decode(strings.NewReader(src))
		require.NoError(t, err)

		assert.Equal(t, "city survey", d.Relation)
		assert.Equal(t, "home town", d.Attributes[0].Name)
		assert.Equal(t, []string{"new york", "paris"}, d.Attributes[0].Values)
		assert.Equal(t, Numeric, d.Attributes[1].Kind)
		assert.Equal(t, "real", d.Attributes[1].TypeName)
		assert.Equal(t, String, d.Attributes[2].Kind)
		assert.Equal(t, Date, d.Attributes[3].Kind)
		assert.Equal(t, "yyyy-MM-dd", d.Attributes[3].Format)
		assert.Empty(t, d.Attributes[4].Values)

		require.Len(t, d.Rows, 2)
		assert.Equal(t, []string{"new york", "1.5", "it's fine", "2024-01-01", "?"}, d.Rows[0])
		assert.Equal(t, []string{"paris", "?", "quoted, with comma", "?", "?"}, d.Rows[1])
	})

	tests := []struct {
		name        string
		src         string
		unsupported bool
	}{
		{"missing data section", "@relation r\n@attribute a numeric\n", false},
		{"row width mismatch", "@relation r\n@attribute a numeric\n@data\n1,2\n", false},
		{"sparse row", "@relation r\n@attribute a numeric\n@data\n{0 1}\n", true},
		{"relational attribute", "@relation r\n@attribute a relational\n@data\n", true},
		{"missing type", "@relation r\n@attribute a\n@data\n", false},
		{"unterminated quote", "@relation r\n@attribute a string\n@data\n'abc\n", false},
		{"stray header line", "@relation r\nhello\n@data\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Equal(t, tt.unsupported, errors.Is(err, errors.ErrUnsupported))
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	d := New("odd names",
		NominalAttribute("place", "new york", "it's", "a,b", "{x}", "50%", ""),
		NumericAttribute("n"),
		Attribute{Name: "note", Kind: String},
	)
	d.AddRow("new york", "1", "hello world")
	d.AddRow("it's", "?", `back\slash`)
	d.AddRow("a,b", "2.5", "?")
	d.AddRow("{x}", "3", "plain")
	d.AddRow("50%", "4", `say "hi"`)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, d))

	out := buf.String()
	assert.Contains(t, out, "@relation 'odd names'\n")
	assert.Contains(t, out, `@attribute place {'new york','it\'s','a,b','{x}','50%',''}`)
	assert.Contains(t, out, "@attribute n numeric\n")
	assert.Contains(t, out, "@attribute note string\n")
	assert.Contains(t, out, "'it\\'s',?,'back\\\\slash'\n")

	back, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.Relation, back.Relation)
	assert.Equal(t, d.Attributes, back.Attributes)
	assert.Equal(t, d.Rows, back.Rows)
}

func TestEncode_WeatherIsStable(t *testing.T) {
	d, err := Decode(strings.NewReader(cekatest.WeatherARFF))
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, Encode(&first, d))

	again, err := Decode(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, Encode(&second, again))
	assert.Equal(t, first.String(), second.String())
}
