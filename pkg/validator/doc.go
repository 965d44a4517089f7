// Package validator validates request structs declared with `validate` tags.
//
// It wraps go-playground/validator with a shared, lazily built engine that
// reports field names by their JSON tag, and converts engine failures into
// ValidationErrors so handlers can inspect which field and rule failed
// without importing the engine.
package validator
