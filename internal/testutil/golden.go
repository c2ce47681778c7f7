// Package testutil provides shared golden-fixture helpers for Glitter Go
// tests, adapted from the teacher's scenario-directory harness (which
// pointed at a sibling `packages/scenarios` tree this module does not
// have) into a local testdata/ fixture layout.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Fixture is one end-to-end case: a Glitter program and its expected
// stdout. Fixtures live as a pair of files under testdata/, e.g.
// testdata/closures.glitter and testdata/closures.expected.
type Fixture struct {
	Name     string
	Source   string
	Expected string
}

// LoadFixtures reads every *.glitter/*.expected pair under dir, sorted by
// file name.
func LoadFixtures(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var fixtures []Fixture
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".glitter") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".glitter")

		source, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		expected, err := os.ReadFile(filepath.Join(dir, name+".expected"))
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, Fixture{
			Name:     name,
			Source:   string(source),
			Expected: string(expected),
		})
	}
	return fixtures, nil
}
