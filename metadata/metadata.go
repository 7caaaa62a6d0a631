package metadata

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/malusev998/money"
)

//go:embed metadata.yml
var embedded []byte

// Table is an in-memory MetadataResolver.
type Table map[money.Code]money.Metadata

func (t Table) ResolveMetadata(code money.Code) (money.Metadata, error) {
	metadata, ok := t[code]
	if !ok {
		return money.Metadata{}, fmt.Errorf("%w: %s", money.ErrMetadataNotFound, code)
	}

	return metadata, nil
}

// Parse decodes a YAML document mapping currency codes to their metadata.
func Parse(data []byte) (Table, error) {
	raw := make(map[string]money.Metadata)

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing currency metadata: %w", err)
	}

	table := make(Table, len(raw))

	for key, metadata := range raw {
		code, err := money.ParseCode(key)
		if err != nil {
			return nil, err
		}

		table[code] = metadata
	}

	return table, nil
}

// Load reads a metadata table from a YAML file.
func Load(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Default returns the table shipped with the module.
func Default() (Table, error) {
	return Parse(embedded)
}

func MustDefault() Table {
	table, err := Default()
	if err != nil {
		panic(err)
	}

	return table
}

// Chain tries every resolver in order and returns the first match.
type Chain []money.MetadataResolver

func (c Chain) ResolveMetadata(code money.Code) (money.Metadata, error) {
	for _, resolver := range c {
		metadata, err := resolver.ResolveMetadata(code)
		if err == nil {
			return metadata, nil
		}
	}

	return money.Metadata{}, fmt.Errorf("%w: %s", money.ErrMetadataNotFound, code)
}

// NewResolver returns the embedded table, overridden by the file at path when
// path is not empty.
func NewResolver(path string) (money.MetadataResolver, error) {
	defaults, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		return defaults, nil
	}

	overrides, err := Load(path)
	if err != nil {
		return nil, err
	}

	return Chain{overrides, defaults}, nil
}
