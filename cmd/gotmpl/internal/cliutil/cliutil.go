// Package cliutil holds the bits every gotmpl subcommand needs: building
// the bundled helper registry and loading JSON input data.
package cliutil

import (
	"io"
	"os"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gotmpl/pkg/helpers"
	"github.com/walteh/gotmpl/pkg/registry"
	"github.com/walteh/gotmpl/pkg/value"
)

// BuildRegistry wires the bundled stock + sprig-style catalog into a fresh
// registry, the set every gotmpl subcommand renders/analyzes against.
func BuildRegistry() (*registry.Registry, error) {
	b := registry.NewBuilder()
	helpers.Register(b)
	reg, err := b.Build()
	if err != nil {
		return nil, errors.Errorf("build helper registry: %w", err)
	}
	return reg, nil
}

// LoadData reads path as JSON and decodes it into a value.Value; path "-"
// reads stdin. An empty input decodes to Null rather than erroring, so
// "render" works with no data at all.
func LoadData(path string) (value.Value, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return value.Null(), errors.Errorf("read data: %w", err)
	}
	if len(raw) == 0 {
		return value.Null(), nil
	}
	v, err := value.Unmarshal(raw)
	if err != nil {
		return value.Null(), errors.Errorf("decode data as JSON: %w", err)
	}
	return v, nil
}
