package core

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"

	"rpk/internal/shared"
)

// Requirement is one parsed dependency specifier from a manifest, a
// pip requirement string such as "requests", "requests==2.31" or
// "requests>=2,<3".
type Requirement struct {
	Name       string
	Constraint string
	Raw        string
}

// ParseRequirement splits a pip requirement string into its name and
// constraint parts and validates the constraint as PEP 440 specifiers.
func ParseRequirement(value string) (Requirement, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return Requirement{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency specifier is empty")
	}
	// A ";" introduces a PEP 508 environment marker. The marker is
	// passed through to the installer untouched; only the part before
	// it is split and validated here.
	spec := raw
	if marker := strings.Index(raw, ";"); marker >= 0 {
		spec = strings.TrimSpace(raw[:marker])
	}
	split := strings.IndexAny(spec, "<>=!~")
	name := spec
	constraint := ""
	if split >= 0 {
		name = strings.TrimSpace(spec[:split])
		constraint = strings.TrimSpace(spec[split:])
	}
	if name == "" {
		return Requirement{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("dependency specifier has no package name: " + raw)
	}
	if constraint != "" {
		if _, err := pep440.NewSpecifiers(constraint); err != nil {
			return Requirement{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid version constraint in dependency specifier: " + raw).
				WithCause(err)
		}
	}
	return Requirement{Name: name, Constraint: constraint, Raw: raw}, nil
}

// ValidateRequirements parses every specifier in a manifest's
// dependency list and rejects duplicates after PEP 503 name
// normalization. Validation runs before any installer subprocess so a
// broken manifest never triggers a partial install.
func ValidateRequirements(specifiers []string) ([]Requirement, error) {
	seen := map[string]string{}
	reqs := make([]Requirement, 0, len(specifiers))
	for _, specifier := range specifiers {
		req, err := ParseRequirement(specifier)
		if err != nil {
			return nil, err
		}
		normalized := shared.NormalizePipName(req.Name)
		if prev, ok := seen[normalized]; ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("duplicate dependency " + req.Name + " (already listed as " + prev + ")")
		}
		seen[normalized] = req.Raw
		reqs = append(reqs, req)
	}
	return reqs, nil
}
