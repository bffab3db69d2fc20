package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var aliasesYAML string

// AliasDefinitions holds all alias mappings
type AliasDefinitions struct {
	Version int `yaml:"version"`
	Aliases struct {
		Processors map[string]string `yaml:"processors"`
	} `yaml:"aliases"`
}

// AliasResolver maps friendly processor names onto registered processor names.
type AliasResolver struct {
	definitions *AliasDefinitions
	// Reverse mapping for finding aliases from names
	processorAliases map[string][]string
}

// NewAliasResolver creates a resolver over the embedded alias definitions.
func NewAliasResolver() (*AliasResolver, error) {
	return ParseAliases([]byte(aliasesYAML))
}

// ParseAliases creates a resolver from YAML alias definitions.
func ParseAliases(data []byte) (*AliasResolver, error) {
	var defs AliasDefinitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parsing alias definitions: %w", err)
	}

	resolver := &AliasResolver{
		definitions:      &defs,
		processorAliases: make(map[string][]string),
	}
	for alias, typ := range defs.Aliases.Processors {
		resolver.processorAliases[typ] = append(resolver.processorAliases[typ], alias)
	}
	for typ := range resolver.processorAliases {
		sort.Strings(resolver.processorAliases[typ])
	}
	return resolver, nil
}

// ResolveProcessorType resolves a processor alias to its actual name.
// Names that are not aliases are returned unchanged.
func (r *AliasResolver) ResolveProcessorType(alias string) (string, bool) {
	if typ, ok := r.definitions.Aliases.Processors[alias]; ok {
		return typ, true
	}
	return alias, false
}

// GetSimilarProcessor finds similar processor aliases for error suggestions
func (r *AliasResolver) GetSimilarProcessor(input string) []string {
	input = strings.ToLower(input)
	var similar []string

	for alias := range r.definitions.Aliases.Processors {
		aliasLower := strings.ToLower(alias)
		if strings.Contains(aliasLower, input) || strings.Contains(input, aliasLower) {
			similar = append(similar, alias)
		} else if len(input) > 2 && strings.HasPrefix(aliasLower, input[:2]) {
			similar = append(similar, alias)
		}
	}
	sort.Strings(similar)

	if len(similar) > 5 {
		similar = similar[:5]
	}
	return similar
}

// GetAllProcessorAliases returns all aliases for a given processor name
func (r *AliasResolver) GetAllProcessorAliases(processorType string) []string {
	return r.processorAliases[processorType]
}
