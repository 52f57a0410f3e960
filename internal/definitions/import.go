package definitions

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/aatumaykin/nextrun/internal/schedule"
)

// ParseYAML decodes definitions from a YAML (or JSON) document. The document
// is either a sequence of definitions or a mapping with a "schedules" key
// holding one. Entries without an id get a random UUID; entries without
// isActive are active.
//
//	schedules:
//	  - kind: cron
//	    cronExpression: "0 6 * * 1-5"
//	    timezone: Europe/Berlin
func ParseYAML(r io.Reader) ([]schedule.Definition, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	seq, err := entries(&doc)
	if err != nil {
		return nil, err
	}

	defs := make([]schedule.Definition, 0, len(seq.Content))
	for i, node := range seq.Content {
		def := schedule.Definition{IsActive: true}
		if err := node.Decode(&def); err != nil {
			return nil, fmt.Errorf("schedule #%d (line %d): %w", i+1, node.Line, err)
		}
		if def.ID == "" {
			def.ID = uuid.NewString()
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// ReadFile is ParseYAML over a file.
func ReadFile(path string) ([]schedule.Definition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ParseYAML(file)
}

func entries(doc *yaml.Node) (*yaml.Node, error) {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		return root, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "schedules" {
				if root.Content[i+1].Kind != yaml.SequenceNode {
					return nil, fmt.Errorf("line %d: schedules must be a list", root.Content[i+1].Line)
				}
				return root.Content[i+1], nil
			}
		}
		return nil, errors.New(`expected a list of schedules or a "schedules" key`)
	default:
		return nil, fmt.Errorf("line %d: expected a list of schedules", root.Line)
	}
}
