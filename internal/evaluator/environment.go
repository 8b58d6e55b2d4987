package evaluator

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Environment is one lexical scope. Closures share it by pointer, so a
// mutation made after a closure was created is visible to the closure.
type Environment struct {
	store map[string]Object
	outer *Environment
}

func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

// Set rebinds name in the nearest scope that defines it, or defines it in
// this scope when no enclosing scope does.
func (e *Environment) Set(name string, val Object) Object {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = val
			return val
		}
	}
	e.store[name] = val
	return val
}

// Define always binds in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, val Object) Object {
	e.store[name] = val
	return val
}
