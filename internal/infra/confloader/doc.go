// Package confloader loads configuration with koanf.
//
// Sources, highest priority first:
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables
//  3. Configuration file (YAML)
//  4. Values already present in the target struct
//
// Environment variables carry the prefix followed by the key path, with a
// double underscore between levels so keys may contain single underscores:
//
//	RESPKV_SERVER__MAX_CONNECTIONS=100  ->  server.max_connections
//
// Watcher reports changes to a configuration file via fsnotify.
package confloader
