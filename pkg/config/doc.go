// Package config loads folio's YAML documents.
//
// It wraps schema validation, YAML parsing, and error formatting behind a
// single generic [Loader], shared by the configuration and catalog kinds.
package config
