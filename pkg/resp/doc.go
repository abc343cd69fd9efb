// Package resp implements the RESP wire format used by respkv.
//
// Value is a closed set of message kinds (null, simple string, bulk string,
// integer, error, boolean, array). Parse decodes one message from a byte
// slice without performing I/O and reports ErrIncomplete when more bytes are
// needed, which lets callers feed partially received data repeatedly.
// Stream layers a per-connection buffer over an io.ReadWriter.
//
// Both the server and the command-line client use this package.
package resp
