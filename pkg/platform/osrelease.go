package platform

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// OSReleasePath is where Linux distributions describe themselves
const OSReleasePath = "/etc/os-release"

// ParseOSRelease reads KEY=value pairs in the os-release(5) format.
// Values may be double or single quoted; comments and blank lines are ignored.
func ParseOSRelease(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	switch v[0] {
	case '"':
		if s, err := strconv.Unquote(v); err == nil {
			return s
		}
		return strings.Trim(v, `"`)
	case '\'':
		return strings.Trim(v, "'")
	}
	return v
}
