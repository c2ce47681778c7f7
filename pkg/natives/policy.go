package natives

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Policy decides which additional native functions a host embedding may
// register beyond the always-present `clock` (spec.md §6/§9). It never
// restricts language-core behavior, only the registerNative surface.
type Policy struct {
	Allowed  map[string]bool
	allowAll bool
}

// PolicyFile is the on-disk YAML shape of a policy file.
type PolicyFile struct {
	Allow []string `yaml:"allow,omitempty"`
	Deny  []string `yaml:"deny,omitempty"`
}

// IsAllowed reports whether name may be registered under this policy.
func (p *Policy) IsAllowed(name string) bool {
	if p == nil {
		return false
	}
	if p.allowAll {
		return true
	}
	return p.Allowed[name]
}

// LoadPolicy loads a native-function policy, checking the project
// directory first, then the user's home directory, defaulting to deny-all
// if neither is present (teacher's pkg/capabilities.LoadPolicy precedence,
// re-grounded on YAML).
func LoadPolicy(projectDir string) (*Policy, *PolicyFile) {
	projectPath := filepath.Join(projectDir, ".glitterpolicy.yaml")
	if pf, err := loadPolicyFile(projectPath); err == nil {
		return buildPolicy(pf), pf
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(homeDir, ".glitter", "policy.yaml")
		if pf, err := loadPolicyFile(userPath); err == nil {
			return buildPolicy(pf), pf
		}
	}

	return DenyAll(), nil
}

func loadPolicyFile(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf PolicyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return &pf, nil
}

func buildPolicy(pf *PolicyFile) *Policy {
	allowed := make(map[string]bool)
	for _, name := range pf.Allow {
		allowed[name] = true
	}
	for _, name := range pf.Deny {
		delete(allowed, name)
	}
	return &Policy{Allowed: allowed}
}

// AllowAll returns a policy permitting every native name.
func AllowAll() *Policy {
	return &Policy{allowAll: true}
}

// DenyAll returns a policy permitting no additional natives.
func DenyAll() *Policy {
	return &Policy{Allowed: make(map[string]bool)}
}
