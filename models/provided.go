package models

// ProvidedItem is one public interface a component exposes: a binary name,
// a shared library, a MIME type and so on. Reverse lookups ("what provides
// libfoo.so.2") key on the (Kind, Value) pair.
type ProvidedItem struct {
	Kind  ProvidedKind `json:"kind"`
	Value string       `json:"value" validate:"required"`
}
