package action

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path addresses an element by the child indices leading to it from the
// root. The empty path is the root itself.
type Path []int

// IsRoot reports whether p denotes the root element.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the parent path and the index of p within it.
// ok is false for the root.
func (p Path) Parent() (parent Path, index int, ok bool) {
	if p.IsRoot() {
		return nil, 0, false
	}
	return p[:len(p)-1:len(p)-1], p[len(p)-1], true
}

// Child returns the path of the i-th child of p.
func (p Path) Child(i int) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, i)
}

// Equal reports whether p and o address the same element.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Validate rejects negative indices.
func (p Path) Validate() error {
	for _, i := range p {
		if i < 0 {
			return fmt.Errorf("negative index %d in target %s", i, p)
		}
	}
	return nil
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// MarshalJSON encodes the root as [] rather than null.
func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(p))
}

// ParsePath parses "[0,1]", "0,1" or "0.1". An empty string or "[]" is the root.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return Path{}, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '.' || r == ' ' })
	p := make(Path, 0, len(fields))
	for _, f := range fields {
		i, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse path %q: %w", s, err)
		}
		p = append(p, i)
	}
	return p, p.Validate()
}
