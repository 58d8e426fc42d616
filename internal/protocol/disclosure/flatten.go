package disclosure

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"sorawallet/internal/domain"
)

const (
	separator = '.'
	escape    = '\\'
)

var (
	ErrUnsupportedValue = errors.New("unsupported document value")
	ErrPathConflict     = errors.New("conflicting field paths")
)

// Flatten converts doc into a flat map of escaped dotted paths to values.
func Flatten(doc domain.Document) (domain.FlatMap, error) {
	out := make(domain.FlatMap)
	if err := flattenInto(out, "", true, map[string]any(doc)); err != nil {
		return nil, err
	}
	return out, nil
}

// flattenInto walks node under prefix. root is explicit because an empty
// key is a valid segment and yields an empty prefix below the root.
func flattenInto(out domain.FlatMap, prefix string, root bool, node map[string]any) error {
	for key, value := range node {
		path := escapeSegment(key)
		if !root {
			path = prefix + string(separator) + path
		}
		switch v := value.(type) {
		case string:
			out[path] = v
		case domain.Document:
			if err := flattenInto(out, path, false, map[string]any(v)); err != nil {
				return err
			}
		case map[string]any:
			if err := flattenInto(out, path, false, v); err != nil {
				return err
			}
		case map[string]string:
			for k, s := range v {
				out[path+string(separator)+escapeSegment(k)] = s
			}
		default:
			return errors.Wrapf(ErrUnsupportedValue, "field %q has type %T", path, value)
		}
	}
	return nil
}

// Unflatten rebuilds the nested document described by flat.
func Unflatten(flat domain.FlatMap) (domain.Document, error) {
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	root := make(domain.Document)
	for _, p := range paths {
		segments := splitPath(p)
		node := root
		for i, seg := range segments {
			if i == len(segments)-1 {
				if _, exists := node[seg]; exists {
					return nil, errors.Wrapf(ErrPathConflict, "field %q", p)
				}
				node[seg] = flat[p]
				break
			}
			next, exists := node[seg]
			if !exists {
				child := make(domain.Document)
				node[seg] = child
				node = child
				continue
			}
			child, ok := next.(domain.Document)
			if !ok {
				return nil, errors.Wrapf(ErrPathConflict, "field %q", p)
			}
			node = child
		}
	}
	return root, nil
}

func escapeSegment(s string) string {
	if !strings.ContainsAny(s, `.\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == separator || r == escape {
			b.WriteRune(escape)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func splitPath(p string) []string {
	var (
		segments []string
		cur      strings.Builder
		escaped  bool
	)
	for _, r := range p {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == escape:
			escaped = true
		case r == separator:
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(segments, cur.String())
}
