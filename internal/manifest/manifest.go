package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// DependencyKind classifies how a package version is declared in a manifest.
type DependencyKind int

const (
	KindDirect DependencyKind = iota
	KindOverride
	KindTransitiveOverride
)

// String returns a string representation of the dependency kind.
func (k DependencyKind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindOverride:
		return "override"
	case KindTransitiveOverride:
		return "transitive-override"
	default:
		return "unknown"
	}
}

// TransitiveOverride is a version constraint pinned through an intermediate
// dependency, declared as "parent>pkg" under pnpm.overrides.
type TransitiveOverride struct {
	Parent  string
	Version string
}

// Versions holds every declaration of the tracked package found in one
// manifest. Any field may be empty when the corresponding form is absent.
type Versions struct {
	Dependency string
	Override   string
	Transitive []TransitiveOverride
}

// Resolution is the effective version declaration for the tracked package.
type Resolution struct {
	Version string
	Kind    DependencyKind
	Parent  string // set for transitive overrides
}

// Effective resolves the version that actually applies.
// Priority: direct override > first transitive override > direct dependency.
// Returns nil when the package is not declared at all.
func (v Versions) Effective() *Resolution {
	if v.Override != "" {
		return &Resolution{Version: v.Override, Kind: KindOverride}
	}
	if len(v.Transitive) > 0 {
		return &Resolution{
			Version: v.Transitive[0].Version,
			Kind:    KindTransitiveOverride,
			Parent:  v.Transitive[0].Parent,
		}
	}
	if v.Dependency != "" {
		return &Resolution{Version: v.Dependency, Kind: KindDirect}
	}
	return nil
}

// packageJSON is the subset of package.json this tool reads.
type packageJSON struct {
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Pnpm            struct {
		Overrides map[string]string `json:"overrides"`
	} `json:"pnpm"`
}

// Extract parses manifest bytes and returns every declaration of pkg.
// A manifest that does not declare the package yields an empty Versions
// value; malformed JSON is an error.
func Extract(data []byte, pkg string) (Versions, error) {
	var doc packageJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return Versions{}, fmt.Errorf("parse manifest: %w", err)
	}

	var v Versions

	if dep, ok := doc.Dependencies[pkg]; ok {
		v.Dependency = dep
	}
	if v.Dependency == "" {
		if dep, ok := doc.DevDependencies[pkg]; ok {
			v.Dependency = dep
		}
	}

	if doc.Pnpm.Overrides != nil {
		v.Override = doc.Pnpm.Overrides[pkg]

		suffix := ">" + pkg
		for key, val := range doc.Pnpm.Overrides {
			if strings.Contains(key, ">") && strings.HasSuffix(key, suffix) {
				parent := key[:strings.IndexByte(key, '>')]
				v.Transitive = append(v.Transitive, TransitiveOverride{
					Parent:  parent,
					Version: val,
				})
			}
		}
		// Map iteration order is random; keep transitive overrides stable.
		sort.Slice(v.Transitive, func(i, j int) bool {
			return v.Transitive[i].Parent < v.Transitive[j].Parent
		})
	}

	return v, nil
}

// DeclaredVersion returns the manifest's own "version" field. Used when
// extracting release records from the tracked package's source repository.
func DeclaredVersion(data []byte) (string, error) {
	var doc packageJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse manifest: %w", err)
	}
	return doc.Version, nil
}
