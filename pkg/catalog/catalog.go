// Package catalog maps human readable asset identifiers to on-disc filenames.
// The mapping is plain data, loaded from YAML; a catalog for Melee NTSC 1.02
// is embedded as the default.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hansbonini/gcmtools/pkg/common"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	// ErrUnknownAsset is returned when an identifier is not in the catalog.
	ErrUnknownAsset = errors.New("unknown asset identifier")

	// ErrAmbiguousAsset is returned when a bare asset key exists in several groups.
	ErrAmbiguousAsset = errors.New("ambiguous asset identifier")
)

// Asset is a single replaceable file.
type Asset struct {
	File        string `yaml:"file"`
	Description string `yaml:"description,omitempty"`
}

// Group collects the assets of one character or menu set.
type Group struct {
	Name  string           `yaml:"name,omitempty"`
	Files map[string]Asset `yaml:"files"`
}

// Catalog is the identifier to filename table.
type Catalog struct {
	Version int              `yaml:"version"`
	Game    string           `yaml:"game,omitempty"`
	Assets  map[string]Group `yaml:"assets"`
}

// Entry is a flattened catalog row.
type Entry struct {
	ID          string
	File        string
	Description string
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadYAMLFile, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, common.FormatError(common.ErrFailedToParseYAML, err)
	}

	for groupKey, group := range c.Assets {
		if strings.Contains(groupKey, ".") {
			return nil, common.FormatErrorString(common.ErrFailedToParseYAML, "group %q must not contain '.'", groupKey)
		}
		for assetKey, asset := range group.Files {
			if asset.File == "" {
				return nil, common.FormatErrorString(common.ErrFailedToParseYAML, "asset %s.%s has no file", groupKey, assetKey)
			}
		}
	}

	return &c, nil
}

// Len returns the number of assets in the catalog.
func (c *Catalog) Len() int {
	n := 0
	for _, group := range c.Assets {
		n += len(group.Files)
	}
	return n
}

// Resolve maps an identifier to its filename. Identifiers are either
// Group.Asset, or a bare Asset key when exactly one group has it.
func (c *Catalog) Resolve(id string) (string, error) {
	if groupKey, assetKey, ok := strings.Cut(id, "."); ok {
		if asset, found := c.Assets[groupKey].Files[assetKey]; found {
			return asset.File, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}

	var matches []string
	var file string
	for groupKey, group := range c.Assets {
		if asset, found := group.Files[id]; found {
			matches = append(matches, groupKey+"."+id)
			file = asset.File
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	case 1:
		return file, nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%w: %s (%s)", ErrAmbiguousAsset, id, strings.Join(matches, ", "))
	}
}

// Lenient returns a resolver that passes identifiers unknown to the catalog
// through unchanged, so plain filenames work as targets too.
func (c *Catalog) Lenient() LenientResolver {
	return LenientResolver{catalog: c}
}

// LenientResolver is a catalog lookup that falls back to the identifier itself.
type LenientResolver struct {
	catalog *Catalog
}

// Resolve maps id through the catalog, or returns it unchanged when unknown.
func (r LenientResolver) Resolve(id string) (string, error) {
	file, err := r.catalog.Resolve(id)
	if errors.Is(err, ErrUnknownAsset) {
		return id, nil
	}
	return file, err
}

// Entries returns every asset sorted by identifier.
func (c *Catalog) Entries() []Entry {
	entries := make([]Entry, 0, c.Len())
	for groupKey, group := range c.Assets {
		for assetKey, asset := range group.Files {
			entries = append(entries, Entry{
				ID:          groupKey + "." + assetKey,
				File:        asset.File,
				Description: asset.Description,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}
