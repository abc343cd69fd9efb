// Package output renders RESP replies for respkv-cli.
//
//   - formatter.go: Formatter interface and factory
//   - raw.go: redis-cli style text
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//
// JSON and YAML share one mapping from RESP values: nil for null, strings,
// integers, booleans, lists for arrays, and {"error": msg} for errors.
package output
