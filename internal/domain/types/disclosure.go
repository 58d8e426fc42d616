package types

// Document is a (possibly nested) key/value document. Leaves are strings;
// inner nodes are Document or map[string]any values.
type Document map[string]any

// FlatMap is a document flattened to dotted field paths.
type FlatMap map[string]string

// SaltedField carries one disclosed value together with its salt.
type SaltedField struct {
	Value string `json:"v"`
	Salt  string `json:"s"`
}

// SaltedMap is the saltified form of a FlatMap.
type SaltedMap map[string]SaltedField

// Salts maps each field path to the salt the holder keeps privately.
type Salts map[string]string
