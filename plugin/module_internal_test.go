package plugin

import (
	"testing"

	"github.com/kappasdr/streamcore/block"
)

// stubProcessor is the minimal block.Processor needed to exercise
// NewAutoNamed without a real compiled plugin.
type stubProcessor struct {
	*block.Block
}

func (s *stubProcessor) Init() error    { return nil }
func (s *stubProcessor) Run() error     { return nil }
func (s *stubProcessor) Process() error { return nil }
func (s *stubProcessor) Stop() error    { return nil }
func (s *stubProcessor) ExecuteCommand(name, args string) (string, error) {
	return "", nil
}

func TestNewAutoNamedUsesDistinctInstanceNames(t *testing.T) {
	var gotNames []string
	m := &Module{
		Descriptor: Descriptor{Name: "fft"},
		factory: func(pluginBlockName, instanceName string) (block.Processor, error) {
			gotNames = append(gotNames, instanceName)
			return &stubProcessor{Block: block.New(instanceName)}, nil
		},
	}

	if _, err := m.NewAutoNamed("FFTBlock"); err != nil {
		t.Fatalf("NewAutoNamed: %v", err)
	}
	if _, err := m.NewAutoNamed("FFTBlock"); err != nil {
		t.Fatalf("NewAutoNamed: %v", err)
	}
	if len(gotNames) != 2 || gotNames[0] == gotNames[1] {
		t.Fatalf("expected two distinct auto-generated instance names, got %v", gotNames)
	}
	for _, n := range gotNames {
		if len(n) <= len("FFTBlock-") {
			t.Fatalf("instance name %q missing random suffix", n)
		}
	}
}
