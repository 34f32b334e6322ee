// Package expect extracts the expected exit status annotation from a test
// source file. Tests declare their expectation anywhere in the source as a
// line comment, e.g.:
//
//	// expect: 42
package expect

import (
	"errors"
	"regexp"
	"strconv"
)

// ErrNoExpectation is returned when the source carries no usable
// "// expect:" annotation.
var ErrNoExpectation = errors.New("no '// expect:' annotation in file")

var annotation = regexp.MustCompile(`// expect:\s*(\d+)`)

// Parse returns the expected exit status embedded in src. Only the first
// annotation is honored; later occurrences are ignored. A missing annotation
// and a malformed digit group are not distinguished.
func Parse(src []byte) (int, error) {
	m := annotation.FindSubmatch(src)
	if m == nil {
		return 0, ErrNoExpectation
	}
	status, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, ErrNoExpectation
	}
	return status, nil
}
