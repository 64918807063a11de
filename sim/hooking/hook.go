// Package hooking lets observers attach to simulated hardware and be told
// about what happens inside it, without the hardware knowing who listens.
package hooking

import "reflect"

// HookPos names a site inside a hookable object where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// Name returns the name of the object that invokes the hooks.
	Name() string

	// AcceptHook registers a hook.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// A HookableBase keeps the hook list for types that implement Hookable.
// Embedders still need to provide Name.
type HookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook. Registering the same hook twice panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

// RemoveHook unregisters a hook. It returns false if the hook was never
// registered. Hooks of a non-comparable type, such as HookFunc values, cannot
// be removed.
func (h *HookableBase) RemoveHook(hook Hook) bool {
	if !isComparable(hook) {
		return false
	}

	for i, registered := range h.hookList {
		if registered == hook {
			h.hookList = append(h.hookList[:i], h.hookList[i+1:]...)
			return true
		}
	}

	return false
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	if !isComparable(hook) {
		return
	}

	for _, registered := range h.hookList {
		if registered == hook {
			panic("duplicated hook")
		}
	}
}

// isComparable reports whether == on the hook is safe. Comparing interfaces
// whose dynamic type is not comparable panics.
func isComparable(hook Hook) bool {
	t := reflect.TypeOf(hook)
	return t != nil && t.Comparable()
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
