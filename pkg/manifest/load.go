package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotinstall/pkg/errors"
	"github.com/arthur-debert/dotinstall/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the manifest file syntax
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.Newf(errors.ErrManifestLoad, "unsupported manifest extension %q (use .yaml, .yml or .toml)", filepath.Ext(path))
}

// Manifest is a parsed, validated and ordered package manifest
type Manifest struct {
	Path   string
	Format Format

	packages []*Package
	byKey    map[string]*Package
}

// entry is a raw record in file order
type entry struct {
	key   string
	value interface{}
}

// Load reads a manifest from disk
func Load(path string) (*Manifest, error) {
	logger := logging.GetLogger("manifest").With().Str("path", path).Logger()

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrManifestLoad, "manifest not found: %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrManifestLoad, "failed to read manifest %s", path)
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	m.Path = path

	logger.Debug().Int("packages", len(m.packages)).Msg("Manifest loaded")
	return m, nil
}

// Parse decodes, validates and orders manifest bytes
func Parse(data []byte, format Format) (*Manifest, error) {
	var entries []entry
	var err error

	switch format {
	case FormatYAML:
		entries, err = parseYAML(data)
	case FormatTOML:
		entries, err = parseTOML(data)
	default:
		return nil, errors.Newf(errors.ErrManifestLoad, "unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, err
	}

	m := &Manifest{
		Format: format,
		byKey:  make(map[string]*Package, len(entries)),
	}

	var problems []string
	for i, e := range entries {
		pkg, errs := decodePackage(e.key, e.value)
		problems = append(problems, errs...)
		if pkg == nil {
			continue
		}
		pkg.index = i
		m.packages = append(m.packages, pkg)
		m.byKey[pkg.Key] = pkg
	}

	problems = append(problems, m.validate()...)
	if len(problems) > 0 {
		return nil, invalid(problems)
	}

	ordered, err := order(m.packages)
	if err != nil {
		return nil, err
	}
	m.packages = ordered

	return m, nil
}

func parseYAML(data []byte) ([]entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse YAML manifest")
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrManifestParse, "manifest must be a mapping of package names to records")
	}

	entries := make([]entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if isTemplateKey(keyNode.Value) {
			continue
		}
		var value interface{}
		if err := valueNode.Decode(&value); err != nil {
			return nil, errors.Wrapf(err, errors.ErrManifestParse, "package %q (line %d)", keyNode.Value, keyNode.Line)
		}
		entries = append(entries, entry{key: keyNode.Value, value: value})
	}
	return entries, nil
}

func parseTOML(data []byte) ([]entry, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifestParse, "failed to parse TOML manifest")
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		if !isTemplateKey(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	entries := make([]entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, entry{key: k, value: raw[k]})
	}
	return entries, nil
}

// isTemplateKey reports keys that only hold YAML anchors such as ".defaults"
func isTemplateKey(key string) bool {
	return strings.HasPrefix(key, ".")
}

func invalid(problems []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "manifest has %d problem(s)", len(problems))
	for _, p := range problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return errors.New(errors.ErrManifestInvalid, b.String()).WithDetail("problems", problems)
}

// Packages returns every package in installation order
func (m *Manifest) Packages() []*Package {
	out := make([]*Package, len(m.packages))
	copy(out, m.packages)
	return out
}

// Get looks a package up by key
func (m *Manifest) Get(key string) (*Package, bool) {
	p, ok := m.byKey[key]
	return p, ok
}

// Keys returns package keys in installation order
func (m *Manifest) Keys() []string {
	keys := make([]string, len(m.packages))
	for i, p := range m.packages {
		keys[i] = p.Key
	}
	return keys
}

// Len returns the number of packages
func (m *Manifest) Len() int {
	return len(m.packages)
}

// Tags returns every tag used in the manifest, sorted
func (m *Manifest) Tags() []string {
	seen := make(map[string]bool)
	for _, p := range m.packages {
		for _, t := range p.Tags {
			seen[t] = true
		}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
