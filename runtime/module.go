package runtime

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/chronos/errors"
)

// Module is a compiled guest.
type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
}

// ExportNames returns the names of exported functions, sorted.
func (m *Module) ExportNames() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Imports returns the imported functions as "module.name".
func (m *Module) Imports() []string {
	defs := m.compiled.ImportedFunctions()
	imports := make([]string, 0, len(defs))
	for _, def := range defs {
		module, name, _ := def.Import()
		imports = append(imports, module+"."+name)
	}
	return imports
}

// Instantiate creates a new instance of the module.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	if m.compiled == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "module")
	}

	mod, err := m.runtime.runtime.InstantiateModule(ctx, m.compiled, m.runtime.moduleConfig())
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	Logger().Debug("guest instantiated", zap.Strings("exports", m.ExportNames()))
	return &Instance{mod: mod}, nil
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	if m.compiled == nil {
		return nil
	}
	return m.compiled.Close(ctx)
}
