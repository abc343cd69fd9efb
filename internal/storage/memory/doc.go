// Package memory provides the in-memory key-value table shared by every
// client connection.
//
// Thread Safety:
//
// A single mutex guards the table. Each Get, Set and Delete holds it for
// exactly one map operation, so multi-key commands are not atomic as a whole.
// Nothing is persisted; the table lives for the lifetime of the process.
package memory
