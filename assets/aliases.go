// Package assets resolves free-text names to canonical asset keys and picks
// image files from the synced asset directory.
package assets

import (
	"os"
	"sort"
	"strings"

	"emperror.dev/errors"
	"gopkg.in/yaml.v3"
)

// names unmarshals either a single YAML string or a list of strings, so the
// alias file can say `chai: masala` as well as `chai: [masala, spiced]`.
type names []string

func (n *names) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*n = names{s}
		return nil
	}

	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*n = list
	return nil
}

// Table maps canonical asset keys to their alternate names. It is read-only
// after loading; the alias file is maintained by hand, outside the bot.
type Table struct {
	keys    []string
	aliases map[string][]string
}

// LoadTable reads an alias table from a YAML file. A missing file yields an
// empty table rather than an error.
func LoadTable(path string) (*Table, error) {
	t := &Table{aliases: map[string][]string{}}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, errors.Wrap(err, "reading alias file")
	}

	raw := map[string]names{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "unmarshaling alias file")
	}

	for key, alts := range raw {
		t.keys = append(t.keys, key)
		t.aliases[key] = alts
	}
	// map iteration order is random; keep lookups deterministic
	sort.Strings(t.keys)

	return t, nil
}

// Len returns the number of canonical keys in the table.
func (t *Table) Len() int {
	return len(t.keys)
}

// Resolve maps a free-text name to a canonical key. Matching is
// case-insensitive and ignores surrounding whitespace; in order: exact key,
// exact alternate, then substring in either direction against the
// alternates. Substring matching is deliberately permissive and can
// misresolve short alternates that overlap.
func (t *Table) Resolve(query string) (key string, ok bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}

	for _, k := range t.keys {
		if strings.ToLower(k) == q {
			return k, true
		}
	}

	for _, k := range t.keys {
		for _, alt := range t.aliases[k] {
			if strings.ToLower(alt) == q {
				return k, true
			}
		}
	}

	for _, k := range t.keys {
		for _, alt := range t.aliases[k] {
			a := strings.ToLower(alt)
			if a == "" {
				continue
			}
			if strings.Contains(a, q) || strings.Contains(q, a) {
				return k, true
			}
		}
	}

	return "", false
}
