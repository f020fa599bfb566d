// Package di implements the Tag and Context part of the dependency-injection
// model from spec.md §2 items 5–6 and §4.4; Layer lives in package effect
// (effect/layer.go). Tag[T] is the opaque typed key the
// teacher's pumped-go/tag.go uses to retrieve a value from a map[any]any
// without losing static typing at the call site — exactly the idiom
// spec.md §9's Design Notes call for ("use opaque typed keys (phantom-typed
// identifiers) to preserve the retrieval type at compile time").
package di

import "fmt"

// Tag is a type-safe key identifying a service bound in a Context.
type Tag[T any] struct {
	name string
}

// NewTag creates a Tag identified by name. Equality is by the Tag value
// itself (comparable structs holding only the name), so two Tag[T] values
// created with the same name and the same T are the same key; tags of
// different T never collide.
func NewTag[T any](name string) Tag[T] {
	return Tag[T]{name: name}
}

// Name returns the tag's diagnostic name.
func (t Tag[T]) Name() string { return t.name }

func (t Tag[T]) String() string { return fmt.Sprintf("Tag[%s]", t.name) }

// key is the type-erased map key a Tag resolves to inside a Context.
type key any
