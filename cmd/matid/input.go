package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blueraft/matid/internal/common"
	"github.com/blueraft/matid/internal/model"
)

// namedStructure pairs a parsed structure with the file it came from.
// LoadErr is set instead of Structure when the file could not be parsed,
// so one bad file never aborts a batch run.
type namedStructure struct {
	Structure *model.Structure
	LoadErr   error
	Name      string
	Path      string
}

// loadStructure reads one structure from a JSON file. Positions may be
// given as Cartesian coordinates or, for fully periodic cells, as
// fractional coordinates only.
func loadStructure(path string) (*model.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot read %s", path), err)
	}

	var s model.Structure
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, common.NewUserError(fmt.Sprintf("%s is not valid structure JSON", path), err)
	}

	if len(s.Positions) == 0 && len(s.Fractional) > 0 {
		if err := cartesianFromFractional(&s); err != nil {
			return nil, common.NewUserError(fmt.Sprintf("%s has unusable coordinates", path), err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, common.NewUserError(fmt.Sprintf("%s fails validation", path), err)
	}
	return &s, nil
}

// cartesianFromFractional fills Positions from Fractional coordinates.
func cartesianFromFractional(s *model.Structure) error {
	if len(s.Lattice) != 3 {
		return fmt.Errorf("fractional positions need 3 lattice vectors, have %d", len(s.Lattice))
	}
	s.Positions = make([]model.Vec3, len(s.Fractional))
	for i, f := range s.Fractional {
		var p model.Vec3
		for d := 0; d < 3; d++ {
			for a := 0; a < 3; a++ {
				p[a] += f[d] * s.Lattice[d][a]
			}
		}
		s.Positions[i] = p
	}
	return nil
}

// collectInputs expands the given paths into named structures. Each path
// may be a single JSON file or a directory scanned for *.json entries.
// Parse failures are recorded per entry rather than aborting the scan.
func collectInputs(paths []string) ([]namedStructure, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("cannot access %s", path), err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("cannot list %s", path), err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}

	sort.Strings(files)

	inputs := make([]namedStructure, 0, len(files))
	for _, file := range files {
		s, err := loadStructure(file)
		inputs = append(inputs, namedStructure{
			Structure: s,
			LoadErr:   err,
			Name:      filepath.Base(file),
			Path:      file,
		})
	}
	return inputs, nil
}
