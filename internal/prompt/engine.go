package prompt

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Detector inspects a Context and returns a Module, or nil when it has nothing to show.
type Detector interface {
	Name() string
	Module(ctx context.Context, promptContext *Context) *Module
}

// Engine evaluates a fixed, ordered set of detectors.
type Engine struct {
	detectors []Detector
}

// NewEngine registers detectors in display order. Nil detectors are ignored.
func NewEngine(detectors ...Detector) Engine {
	registered := make([]Detector, 0, len(detectors))
	for _, detector := range detectors {
		if detector != nil {
			registered = append(registered, detector)
		}
	}
	return Engine{detectors: registered}
}

// Names lists the registered detector names in display order.
func (engine Engine) Names() []string {
	names := make([]string, 0, len(engine.detectors))
	for _, detector := range engine.detectors {
		names = append(names, detector.Name())
	}
	return names
}

// Lookup finds a detector by name.
func (engine Engine) Lookup(name string) (Detector, bool) {
	for _, detector := range engine.detectors {
		if detector.Name() == name {
			return detector, true
		}
	}
	return nil, false
}

// Modules runs every detector concurrently and returns the produced modules in registration order.
func (engine Engine) Modules(ctx context.Context, promptContext *Context) ([]*Module, error) {
	results := make([]*Module, len(engine.detectors))
	group, groupContext := errgroup.WithContext(ctx)
	for index, detector := range engine.detectors {
		index, detector := index, detector
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			results[index] = detector.Module(groupContext, promptContext)
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, fmt.Errorf("evaluate modules: %w", waitError)
	}
	modules := make([]*Module, 0, len(results))
	for _, module := range results {
		if !module.IsEmpty() {
			modules = append(modules, module)
		}
	}
	return modules, nil
}

// Render joins the styled modules into one prompt line.
func Render(modules []*Module, palette Palette) string {
	rendered := make([]string, 0, len(modules))
	for _, module := range modules {
		if text := module.Render(palette); text != "" {
			rendered = append(rendered, text)
		}
	}
	return strings.Join(rendered, " ")
}
