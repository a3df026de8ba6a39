package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/wgpu/hal"
)

// Shader errors.
var (
	// ErrMissingEntryPoint is returned when WGSL source lacks a vertex-stage
	// vs_main or a fragment-stage fs_main.
	ErrMissingEntryPoint = errors.New("pipeline: shader entry point missing")

	// ErrShaderCompile is returned when naga rejects the WGSL source.
	ErrShaderCompile = errors.New("pipeline: shader compilation failed")

	// ErrShaderReleased is returned when a destroyed shader is used.
	ErrShaderReleased = errors.New("pipeline: shader has been released")
)

var requiredEntryPoints = []struct {
	name  string
	stage ir.ShaderStage
	kind  string
}{
	{VertexEntryPoint, ir.StageVertex, "vertex"},
	{FragmentEntryPoint, ir.StageFragment, "fragment"},
}

// Shader is a compiled shader module holding both pipeline entry points.
type Shader struct {
	module   hal.ShaderModule
	label    string
	words    int
	released bool
}

// LoadShader parses WGSL source, checks its entry points, compiles it to
// SPIR-V and creates a shader module on device.
func LoadShader(device hal.Device, label, source string) (*Shader, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	module, err := parseModule(source)
	if err != nil {
		return nil, err
	}
	if err := checkEntryPoints(module); err != nil {
		return nil, err
	}

	spirv, err := compileSPIRV(source)
	if err != nil {
		return nil, err
	}

	shaderModule, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: create shader module %q: %w", label, err)
	}
	return &Shader{module: shaderModule, label: label, words: len(spirv)}, nil
}

// CheckEntryPoints parses source and reports ErrMissingEntryPoint unless it
// declares vs_main as a vertex entry point and fs_main as a fragment entry
// point. Source that does not parse yields ErrShaderCompile.
func CheckEntryPoints(source string) error {
	module, err := parseModule(source)
	if err != nil {
		return err
	}
	return checkEntryPoints(module)
}

func parseModule(source string) (*ir.Module, error) {
	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	module, err := naga.Lower(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	return module, nil
}

func checkEntryPoints(module *ir.Module) error {
	for _, want := range requiredEntryPoints {
		found := false
		for _, ep := range module.EntryPoints {
			if ep.Name != want.name {
				continue
			}
			if ep.Stage != want.stage {
				return fmt.Errorf("%w: %s is not a %s entry point", ErrMissingEntryPoint, want.name, want.kind)
			}
			found = true
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrMissingEntryPoint, want.name)
		}
	}
	return nil
}

// compileSPIRV compiles WGSL to SPIR-V words. SPIR-V is little-endian 32-bit.
func compileSPIRV(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// Label returns the debug label.
func (s *Shader) Label() string { return s.label }

// SPIRVWords returns the size of the compiled module in 32-bit words.
func (s *Shader) SPIRVWords() int { return s.words }

// Released reports whether Destroy has been called.
func (s *Shader) Released() bool { return s.released }

// Destroy releases the shader module. Pipelines already created from the
// shader stay valid. Destroy is idempotent.
func (s *Shader) Destroy(device hal.Device) {
	if s.released {
		return
	}
	s.released = true
	if device != nil && s.module != nil {
		device.DestroyShaderModule(s.module)
	}
	s.module = nil
}
