package glossary

import (
	"fmt"
	"os"
)

func LoadFile(path string) (*Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file %s: %w", path, err)
	}
	mappings, err := DecodeMappings(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse glossary file %s: %w", path, err)
	}
	terms := make(map[string]string, len(mappings))
	for _, m := range mappings {
		terms[m.Source] = m.Target
	}
	return New(terms), nil
}
