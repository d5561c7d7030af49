package grove

import "strings"

// Path locates a group in the backing store as an ordered sequence of
// segment names. The zero value is the root path. Paths are value types;
// every derivation copies, so a Path handed out never aliases the
// caller's backing array.
type Path struct {
	parts []string
}

// RootPath returns the empty root path.
func RootPath() Path { return Path{} }

// NewPath builds a path from the given segments.
func NewPath(segments ...string) Path {
	if len(segments) == 0 {
		return Path{}
	}
	return Path{parts: append([]string{}, segments...)}
}

// ParsePath splits a "/a/b/c" style string into a Path. Empty segments
// collapse, so "/", "" and "//" all parse to the root path.
func ParsePath(s string) Path {
	parts := []string{}
	for _, p := range strings.Split(s, "/") {
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}
	return Path{parts: parts}
}

// Child returns this path extended by one segment.
func (p Path) Child(segment string) Path {
	return Path{parts: append(append([]string{}, p.parts...), segment)}
}

// Shared returns the longest common leading subsequence of p and other,
// stopping at the first mismatch. Shared is reflexive and yields the root
// path when the first segments already diverge.
func (p Path) Shared(other Path) Path {
	n := len(p.parts)
	if len(other.parts) < n {
		n = len(other.parts)
	}
	shared := []string{}
	for i := 0; i < n; i++ {
		if p.parts[i] != other.parts[i] {
			break
		}
		shared = append(shared, p.parts[i])
	}
	return Path{parts: shared}
}

// Equal reports segment-wise equality.
func (p Path) Equal(other Path) bool {
	if len(p.parts) != len(other.parts) {
		return false
	}
	for i := range p.parts {
		if p.parts[i] != other.parts[i] {
			return false
		}
	}
	return true
}

// IsRoot reports whether p is the empty root path.
func (p Path) IsRoot() bool { return len(p.parts) == 0 }

// Len returns the number of segments.
func (p Path) Len() int { return len(p.parts) }

// Segments returns a copy of the segment list.
func (p Path) Segments() []string { return append([]string{}, p.parts...) }

func (p Path) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
