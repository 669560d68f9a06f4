// Package checklist loads the process/classifier configuration table.
// A default table ships embedded in the binary; a user-supplied YAML
// file overrides it.
package checklist

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

//go:embed default.yaml
var defaultYAML []byte

var defaultChecklist = mustParse(defaultYAML)

// fileFormat is the YAML schema for checklist files.
type fileFormat struct {
	Processes []processEntry `yaml:"processes"`
	Labels    []labelEntry   `yaml:"labels"`
}

type processEntry struct {
	Name              string   `yaml:"name"`
	RequiredDocuments []string `yaml:"required_documents"`
}

type labelEntry struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Default returns the checklist embedded in the binary.
func Default() domain.Checklist {
	return defaultChecklist
}

// Load reads a checklist from path. An empty path or a missing file
// falls back to the embedded default. An unreadable or malformed file
// is an error, so a broken override never silently vanishes.
func Load(path string) (domain.Checklist, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return domain.Checklist{}, fmt.Errorf("read checklist %s: %w", path, err)
	}

	c, err := parse(data)
	if err != nil {
		return domain.Checklist{}, fmt.Errorf("parse checklist %s: %w", path, err)
	}
	return c, nil
}

// parse decodes YAML into the domain table. Keywords are lowercased to
// match the classifier's case-insensitive contract; blank entries are
// dropped.
func parse(data []byte) (domain.Checklist, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Checklist{}, err
	}

	var c domain.Checklist
	for _, p := range f.Processes {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		docs := make([]string, 0, len(p.RequiredDocuments))
		for _, d := range p.RequiredDocuments {
			if d = strings.TrimSpace(d); d != "" {
				docs = append(docs, d)
			}
		}
		c.Processes = append(c.Processes, domain.ProcessRequirement{
			Name:              name,
			RequiredDocuments: docs,
		})
	}

	for _, l := range f.Labels {
		label := strings.TrimSpace(l.Label)
		if label == "" {
			continue
		}
		kws := make([]string, 0, len(l.Keywords))
		for _, kw := range l.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		c.Labels = append(c.Labels, domain.LabelKeywords{
			Label:    label,
			Keywords: kws,
		})
	}

	return c, nil
}

func mustParse(data []byte) domain.Checklist {
	c, err := parse(data)
	if err != nil {
		panic("checklist: invalid embedded default: " + err.Error())
	}
	return c
}
