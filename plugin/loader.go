package plugin

import (
	stdplugin "plugin"

	"github.com/pkg/errors"

	"github.com/kappasdr/streamcore/block"
	"github.com/kappasdr/streamcore/cmn/cos"
	"github.com/kappasdr/streamcore/cmn/errkind"
)

// Factory constructs one instance of a block the plugin provides,
// given the requested plugin-side block type name and the caller's
// chosen instance name.
type Factory func(pluginBlockName, instanceName string) (block.Processor, error)

// Module is an opened plugin library: its descriptor plus the
// factory entry point used to instantiate the blocks it Provides.
type Module struct {
	Descriptor Descriptor
	factory    Factory
}

// New constructs a block named instanceName of the plugin's
// pluginBlockName type.
func (m *Module) New(pluginBlockName, instanceName string) (block.Processor, error) {
	return m.factory(pluginBlockName, instanceName)
}

// NewAutoNamed constructs an instance of pluginBlockName for a caller
// that has no specific instance name to give it (e.g. a chain that
// auto-instantiates every block type a freshly loaded plugin
// Provides) by suffixing it with cos.CryptoRandS.
func (m *Module) NewAutoNamed(pluginBlockName string) (block.Processor, error) {
	instanceName := pluginBlockName + "-" + cos.CryptoRandS(8)
	return m.New(pluginBlockName, instanceName)
}

// Open loads a Go plugin (.so) from path, reads its exported
// "Descriptor" variable and "NewBlock" factory function, and returns
// the resulting Module. Every loading failure (missing file, missing
// symbol, wrong symbol type) maps to FileNotFound.
func Open(path string) (*Module, error) {
	p, err := stdplugin.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errkind.New(errkind.FileNotFound, "%v", err), "open plugin %s", path)
	}

	descSym, err := p.Lookup("Descriptor")
	if err != nil {
		return nil, errors.Wrapf(errkind.New(errkind.FileNotFound, "%v", err), "plugin %s: missing Descriptor", path)
	}
	desc, ok := descSym.(*Descriptor)
	if !ok {
		return nil, errors.Wrapf(errkind.New(errkind.FileNotFound, "Descriptor has the wrong type"), "plugin %s", path)
	}

	factorySym, err := p.Lookup("NewBlock")
	if err != nil {
		return nil, errors.Wrapf(errkind.New(errkind.FileNotFound, "%v", err), "plugin %s: missing NewBlock", path)
	}
	factory, ok := factorySym.(func(string, string) (block.Processor, error))
	if !ok {
		return nil, errors.Wrapf(errkind.New(errkind.FileNotFound, "NewBlock has the wrong signature"), "plugin %s", path)
	}

	return &Module{Descriptor: *desc, factory: Factory(factory)}, nil
}
