package mm2k

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProgram decodes an alternative session table from YAML:
//
//	name: mm2k-light
//	sessions:
//	  - id: 1
//	    name: Workout 1
//	    blocks:
//	      - {reps: 8, intensity: 0.75, kind: work}
//	      - {reps: FT, intensity: 0.90, kind: failure}
func LoadProgram(r io.Reader) (*Program, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	p := &Program{}
	if err := dec.Decode(p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty program: %w", ErrInvalidInput)
		}
		return nil, fmt.Errorf("decode program: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadProgramFile reads a program file, an empty path gives DefaultProgram
func LoadProgramFile(path string) (*Program, error) {
	if path == "" {
		return DefaultProgram(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open program %s: %w", path, err)
	}
	defer f.Close()
	return LoadProgram(f)
}

func (r *Reps) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: reps must be a number or FT: %w", value.Line, ErrInvalidInput)
	}
	reps := parseReps(value.Value)
	if !reps.FT && reps.Count == 0 && value.Value != "0" {
		return fmt.Errorf("line %d: reps %q: %w", value.Line, value.Value, ErrInvalidInput)
	}
	*r = reps
	return nil
}

func (r Reps) MarshalYAML() (interface{}, error) {
	if r.FT {
		return ftSentinel, nil
	}
	return r.Count, nil
}
