package bootdep

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the manifest looked up inside a directory or archive by OpenManifest.
const ManifestFileName = "bootdep.yaml"

// Manifest narrows down which registered components take part in a bootstrap. Patterns are
// matched against the package qualified type name without a leading '*', for example
// "github.com/acme/app/store.Postgres". A pattern is either a path.Match glob or an import path
// followed by "/..." which matches every type in that package and the packages below it.
//
// With no include patterns every component is included. Exclusions win over inclusions.
//
//	include:
//	  - github.com/acme/app/...
//	exclude:
//	  - github.com/acme/app/legacy/...
//	  - github.com/acme/app/store.Memory
type Manifest struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// ParseManifest decodes a YAML manifest and checks its patterns.
func ParseManifest(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	for _, p := range append(append([]string(nil), m.Include...), m.Exclude...) {
		if strings.HasSuffix(p, "/...") {
			continue
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("manifest: pattern %q: %w", p, err)
		}
	}
	return m, nil
}

// LoadManifest reads and parses the named manifest from fsys.
func LoadManifest(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return ParseManifest(data)
}

// OpenManifest loads a manifest from location, which is either a directory or a .zip archive
// containing ManifestFileName at its top level, or the manifest file itself.
func OpenManifest(location string) (*Manifest, error) {
	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	switch {
	case info.IsDir():
		return LoadManifest(os.DirFS(location), ManifestFileName)
	case strings.EqualFold(filepath.Ext(location), ".zip"):
		archive, err := zip.OpenReader(location)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		defer archive.Close()
		return LoadManifest(archive, ManifestFileName)
	default:
		return LoadManifest(os.DirFS(filepath.Dir(location)), filepath.Base(location))
	}
}

// Allows reports whether the manifest lets component type t take part.
func (m *Manifest) Allows(t reflect.Type) bool {
	if m == nil {
		return true
	}
	if len(m.Include) > 0 && !matchAny(m.Include, t) {
		return false
	}
	return !matchAny(m.Exclude, t)
}

func matchAny(patterns []string, t reflect.Type) bool {
	name := strings.TrimPrefix(qualifiedName(t), "*")
	for _, p := range patterns {
		if tree, ok := strings.CutSuffix(p, "/..."); ok {
			if inNamespace(namespaceOf(t), tree) {
				return true
			}
			continue
		}
		if matched, _ := path.Match(p, name); matched {
			return true
		}
	}
	return false
}

// ManifestLister is a TypeLister that hides the components of another lister that its manifest
// does not allow.
type ManifestLister struct {
	source   TypeLister
	manifest *Manifest
}

// NewManifestLister filters source through manifest.
func NewManifestLister(source TypeLister, manifest *Manifest) *ManifestLister {
	return &ManifestLister{source: source, manifest: manifest}
}

// OpenManifestLister filters source through the manifest found at location. See OpenManifest.
func OpenManifestLister(source TypeLister, location string) (*ManifestLister, error) {
	m, err := OpenManifest(location)
	if err != nil {
		return nil, &DependencyError{
			Kind:        ErrDiscovery,
			Message:     fmt.Sprintf("reading manifest %q", location),
			SourceError: err,
		}
	}
	return NewManifestLister(source, m), nil
}

// List implements TypeLister.
func (l *ManifestLister) List(root string) ([]TypeDescriptor, error) {
	listed, err := l.source.List(root)
	if err != nil {
		return nil, err
	}
	result := make([]TypeDescriptor, 0, len(listed))
	for _, d := range listed {
		if d.Component && !l.manifest.Allows(d.Type) {
			continue
		}
		result = append(result, d)
	}
	return result, nil
}
