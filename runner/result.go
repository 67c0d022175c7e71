package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/teranos/ceka/errors"
)

// MessageNone is the message of a successful result
const MessageNone = "none"

// Result is the outcome of a transform: Code 0 is failure, anything above
// is success (the byte count for getMemorySize)
type Result struct {
	Code    int64
	Message string
}

// Succeeded reports whether the dataset should be saved
func (r Result) Succeeded() bool {
	return r.Code > 0
}

// Line renders r as the single status line ceka prints
func (r Result) Line() string {
	return fmt.Sprintf(`{ "result": "%s", "msg": %s }`, strconv.FormatInt(r.Code, 10), jsonString(r.Message))
}

// Report writes the status line to w
func (r Result) Report(w io.Writer) error {
	if _, err := fmt.Fprintln(w, r.Line()); err != nil {
		return errors.Wrap(err, "failed to write result")
	}
	return nil
}

func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail
	_ = enc.Encode(s)
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
