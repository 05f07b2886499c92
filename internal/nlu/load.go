package nlu

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCatalog reads a YAML catalog definition from path and compiles it.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog compiles a YAML catalog definition. Unknown fields are
// rejected so that typos surface as ErrMalformedConfig rather than as
// silently missing keywords.
func ParseCatalog(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrMalformedConfig)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	return Compile(def)
}

// WriteYAML encodes the catalog definition to w.
func (c *Catalog) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Definition()); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}
