package updater

import (
	"context"
	"fmt"

	"github.com/pokerjest/movieAutoTool/internal/model"
)

// Session is the per-movie state handed to processors. Store is bound to the
// transaction of the current sync.
type Session struct {
	Ctx    context.Context
	Store  Store
	Movie  *model.Movie
	IMDbID string
}

// Result is what a processor produced: column updates for the movie row and
// whether relation rows were rewritten.
type Result struct {
	Fields    map[string]interface{}
	Relations bool
}

// Processor materializes an extracted value into persisted state.
type Processor interface {
	Process(s *Session, value any) (Result, error)
}

// Preparer is implemented by processors that need network I/O. Prepare runs
// before the transaction opens and returns the value handed to Process;
// ok=false drops the category from this sync.
type Preparer interface {
	Prepare(ctx context.Context, store Store, imdbID string, value any) (prepared any, ok bool)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(s *Session, value any) (Result, error)

func (f ProcessorFunc) Process(s *Session, value any) (Result, error) { return f(s, value) }

// ProcessorRegistration binds a processor to a category.
type ProcessorRegistration struct {
	Category  Category
	Processor Processor
}

// ProcessorRegistry holds at most one processor per category. Categories
// without one are written straight to their column.
type ProcessorRegistry struct {
	byCategory map[Category]Processor
}

// NewProcessorRegistry builds the registry; a second processor for the same
// category is a configuration error.
func NewProcessorRegistry(regs ...ProcessorRegistration) (*ProcessorRegistry, error) {
	by := make(map[Category]Processor, len(regs))
	for _, reg := range regs {
		if _, ok := categoryNames[reg.Category]; !ok {
			return nil, &ConfigError{Category: reg.Category, Reason: "unknown category"}
		}
		if reg.Processor == nil {
			return nil, &ConfigError{Category: reg.Category, Reason: "nil processor"}
		}
		if _, dup := by[reg.Category]; dup {
			return nil, &ConfigError{Category: reg.Category, Reason: "duplicate processor"}
		}
		by[reg.Category] = reg.Processor
	}
	// pass-through needs a column to write to
	for _, c := range AllCategories() {
		if _, ok := by[c]; ok {
			continue
		}
		if _, ok := c.Column(); !ok {
			return nil, &ConfigError{Category: c, Reason: "no processor and no column for pass-through"}
		}
	}
	return &ProcessorRegistry{byCategory: by}, nil
}

// Process runs the registered processor, or the pass-through.
func (r *ProcessorRegistry) Process(c Category, s *Session, value any) (Result, error) {
	if p, ok := r.byCategory[c]; ok {
		return p.Process(s, value)
	}
	col, ok := c.Column()
	if !ok {
		return Result{}, &ConfigError{Category: c, Reason: "no processor"}
	}
	return Result{Fields: map[string]interface{}{col: value}}, nil
}

// Prepare runs the category's Preparer; other values pass unchanged.
func (r *ProcessorRegistry) Prepare(ctx context.Context, c Category, store Store, imdbID string, value any) (any, bool) {
	if !r.Has(c) {
		return value, true
	}
	p, ok := r.byCategory[c].(Preparer)
	if !ok {
		return value, true
	}
	return p.Prepare(ctx, store, imdbID, value)
}

// Has reports whether a dedicated processor is registered.
func (r *ProcessorRegistry) Has(c Category) bool {
	_, ok := r.byCategory[c]
	return ok
}

func unexpectedValue(c Category, v any) error {
	return fmt.Errorf("%s: unexpected value type %T", c, v)
}
