// Package container provides a reflection-based service container with
// constructor injection.
//
// Services register under a name with a constructor function; constructor
// parameters resolve by type against other registered services. Every
// service is a singleton: the constructor runs once and the instance is
// reused.
//
//	c := container.New()
//	c.Register("db", func() *sql.DB { ... })
//	c.Register("PostsController", func(db *sql.DB) *PostsController { ... })
//
//	v, err := c.Resolve("PostsController")
package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNotRegistered indicates no service is bound under the requested
	// name, or no registered service satisfies a dependency type.
	ErrNotRegistered = errors.New("container: service not registered")

	// ErrAlreadyRegistered indicates a duplicate Register call for a name.
	ErrAlreadyRegistered = errors.New("container: service already registered")

	// ErrInvalidConstructor indicates the constructor is not a function
	// returning a value, optionally with a trailing error.
	ErrInvalidConstructor = errors.New("container: constructor must be a function returning (T) or (T, error)")

	// ErrCircularDependency indicates two services require each other,
	// directly or transitively.
	ErrCircularDependency = errors.New("container: circular dependency")

	// ErrAmbiguousDependency indicates more than one registered service
	// satisfies a dependency type.
	ErrAmbiguousDependency = errors.New("container: multiple services satisfy dependency")
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

type provider struct {
	ctor reflect.Value
	typ  reflect.Type
}

// Container holds service registrations and resolved singletons.
// Safe for concurrent use.
type Container struct {
	providers map[string]*provider
	instances map[string]any
	mu        sync.Mutex
}

// New creates an empty container.
func New() *Container {
	return &Container{
		providers: make(map[string]*provider),
		instances: make(map[string]any),
	}
}

// Register binds a name to a constructor. The constructor must be a
// function returning one value, optionally followed by an error. Its
// parameters are resolved by type when the service is first requested.
func (c *Container) Register(name string, constructor any) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidConstructor)
	}

	ctor := reflect.ValueOf(constructor)
	if !ctor.IsValid() || ctor.Kind() != reflect.Func {
		return fmt.Errorf("%w: %q got %T", ErrInvalidConstructor, name, constructor)
	}
	ct := ctor.Type()
	switch ct.NumOut() {
	case 1:
		if ct.Out(0) == errType {
			return fmt.Errorf("%w: %q returns only an error", ErrInvalidConstructor, name)
		}
	case 2:
		if ct.Out(1) != errType {
			return fmt.Errorf("%w: %q second result must be error", ErrInvalidConstructor, name)
		}
	default:
		return fmt.Errorf("%w: %q has %d results", ErrInvalidConstructor, name, ct.NumOut())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.providers[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyRegistered, name)
	}
	c.providers[name] = &provider{ctor: ctor, typ: ct.Out(0)}
	return nil
}

// MustRegister is Register that panics on error, for wiring at startup.
func (c *Container) MustRegister(name string, constructor any) {
	if err := c.Register(name, constructor); err != nil {
		panic(err)
	}
}

// Resolve returns the service bound under name, constructing it and its
// dependencies on first use.
func (c *Container) Resolve(name string) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolve(name, make(map[string]bool))
}

// resolve walks the dependency graph. The building set tracks the current
// construction path for cycle detection. Caller holds the lock.
func (c *Container) resolve(name string, building map[string]bool) (any, error) {
	if instance, ok := c.instances[name]; ok {
		return instance, nil
	}

	p, ok := c.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}
	if building[name] {
		return nil, fmt.Errorf("%w: %q depends on itself", ErrCircularDependency, name)
	}
	building[name] = true
	defer delete(building, name)

	ct := p.ctor.Type()
	args := make([]reflect.Value, ct.NumIn())
	for i := range ct.NumIn() {
		dep, err := c.resolveType(ct.In(i), building)
		if err != nil {
			return nil, fmt.Errorf("%q argument %d: %w", name, i, err)
		}
		v := reflect.ValueOf(dep)
		if !v.IsValid() {
			// A constructor may legitimately produce a nil interface.
			v = reflect.Zero(ct.In(i))
		}
		args[i] = v
	}

	results := p.ctor.Call(args)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, fmt.Errorf("container: construct %q: %w", name, results[1].Interface().(error))
	}

	instance := results[0].Interface()
	c.instances[name] = instance
	return instance, nil
}

// resolveType finds the single registered service satisfying t: an exact
// type match, or for interface types an implementation.
func (c *Container) resolveType(t reflect.Type, building map[string]bool) (any, error) {
	var matches []string
	for name, p := range c.providers {
		if p.typ == t || (t.Kind() == reflect.Interface && p.typ.Implements(t)) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no service of type %s", ErrNotRegistered, t)
	case 1:
		return c.resolve(matches[0], building)
	default:
		return nil, fmt.Errorf("%w: type %s has %d providers", ErrAmbiguousDependency, t, len(matches))
	}
}

// Has reports whether a service is registered under name.
func (c *Container) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.providers[name]
	return ok
}

// Names returns all registered service names, unordered.
func (c *Container) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.providers))
	for name := range c.providers {
		names = append(names, name)
	}
	return names
}
