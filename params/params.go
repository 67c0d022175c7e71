// Package params decodes the "key:value" parameter tokens passed with -p
// and binds decoded values onto typed settings.
package params

import (
	"sort"
	"strconv"
	"strings"

	"github.com/teranos/ceka/errors"
)

// Separator splits a parameter token into key and value
const Separator = ":"

// Split decodes one "key:value" token.
// Only the first separator splits; the value may contain more of them.
func Split(token string) (key, value string, err error) {
	idx := strings.Index(token, Separator)
	if idx < 0 {
		return "", "", errors.Wrapf(ErrMalformed, "parameter %q has no %q separator", token, Separator)
	}
	if idx == 0 {
		return "", "", errors.Wrapf(ErrMalformed, "parameter %q has an empty key", token)
	}
	return token[:idx], token[idx+len(Separator):], nil
}

// ErrMalformed is returned for tokens that are not "key:value"
var ErrMalformed = errors.ErrMalformedParameter

// Decode turns tokens into a key/value mapping.
// Repeated keys are not an error: the last occurrence wins.
func Decode(tokens []string) (map[string]string, error) {
	decoded := make(map[string]string, len(tokens))
	for _, token := range tokens {
		key, value, err := Split(token)
		if err != nil {
			return nil, err
		}
		decoded[key] = value
	}
	return decoded, nil
}

// Field binds one recognized key to a typed destination
type Field struct {
	Key string
	set func(value string) error
}

// Float binds key to a float64 destination
func Float(key string, dst *float64) Field {
	return Field{Key: key, set: func(v string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}}
}

// Int binds key to an int destination
func Int(key string, dst *int) Field {
	return Field{Key: key, set: func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}}
}

// Bool binds key to a bool destination.
// Accepts "true" and "false" in any case, surrounding whitespace ignored.
func Bool(key string, dst *bool) Field {
	return Field{Key: key, set: func(v string) error {
		b, err := ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}}
}

// String binds key to a string destination verbatim
func String(key string, dst *string) Field {
	return Field{Key: key, set: func(v string) error {
		*dst = v
		return nil
	}}
}

// ParseBool accepts "true" or "false" case-insensitively
func ParseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, errors.Newf("%q is not a valid boolean, expected true or false", v)
}

// Binding summarizes a successful Bind
type Binding struct {
	// Applied counts recognized keys that were set
	Applied int

	// Unknown lists keys no field recognized, sorted
	Unknown []string
}

// Bind applies decoded onto fields, visiting keys in sorted order.
// It stops at the first value that fails to parse. Destinations may already
// hold some values by then, so callers that want all-or-nothing semantics
// bind into a scratch copy and only keep it when err is nil.
func Bind(decoded map[string]string, fields ...Field) (Binding, error) {
	byKey := make(map[string]Field, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}

	keys := make([]string, 0, len(decoded))
	for k := range decoded {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b Binding
	for _, k := range keys {
		f, ok := byKey[k]
		if !ok {
			b.Unknown = append(b.Unknown, k)
			continue
		}
		if err := f.set(decoded[k]); err != nil {
			return Binding{}, errors.Wrapf(err, "parameter %s", k)
		}
		b.Applied++
	}
	return b, nil
}
