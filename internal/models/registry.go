package models

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aescanero/scenario/internal/protocol"
)

// ErrUnknownModel is returned by Lookup for an unregistered name.
var ErrUnknownModel = errors.New("unknown model")

// Registry holds the worker kinds available to the CLI
type Registry struct {
	models []Model
	byName map[string]Model
}

// NewRegistry validates and registers models
func NewRegistry(models ...Model) (*Registry, error) {
	r := &Registry{byName: make(map[string]Model)}

	for _, m := range models {
		if err := validateModel(m); err != nil {
			return nil, err
		}

		info := m.Info()
		for _, name := range append([]string{info.Name}, info.Aliases...) {
			if _, exists := r.byName[name]; exists {
				return nil, fmt.Errorf("duplicate model name: %s", name)
			}
			r.byName[name] = m
		}
		r.models = append(r.models, m)
	}

	return r, nil
}

// Builtin returns a registry of every worker kind shipped with the binary
func Builtin() *Registry {
	r, err := NewRegistry(
		PricingElasticity{},
		ChurnRisk{},
		SupplyChainRisk{},
		FreightForecasting{},
		MacroeconomicForecasting{},
		InputOutput{},
		CGE{},
	)
	if err != nil {
		panic(fmt.Sprintf("builtin models: %v", err))
	}
	return r
}

// Lookup finds a model by name or alias
func (r *Registry) Lookup(name string) (Model, error) {
	m, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return m, nil
}

// Models returns registered models sorted by name
func (r *Registry) Models() []Model {
	out := make([]Model, len(r.models))
	copy(out, r.models)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Info().Name < out[j].Info().Name
	})
	return out
}

// validateModel validates a single model
func validateModel(m Model) error {
	if m == nil {
		return fmt.Errorf("model is nil")
	}

	info := m.Info()
	if info.Name == "" {
		return fmt.Errorf("model name is required")
	}

	if info.Description == "" {
		return fmt.Errorf("model %s: description is required", info.Name)
	}

	_, streams := m.(Streamer)
	switch info.Mode {
	case protocol.ModeStreaming:
		if !streams {
			return fmt.Errorf("model %s: streaming mode requires stages", info.Name)
		}
		for i, st := range m.(Streamer).Stages() {
			if st.Kind != protocol.KindStatus && st.Kind != protocol.KindProgress {
				return fmt.Errorf("model %s: stage %d has kind %s", info.Name, i, st.Kind)
			}
		}
	case protocol.ModeSingleShot:
		if streams {
			return fmt.Errorf("model %s: single-shot model must not declare stages", info.Name)
		}
	default:
		return fmt.Errorf("model %s: invalid mode %d", info.Name, info.Mode)
	}

	return nil
}
