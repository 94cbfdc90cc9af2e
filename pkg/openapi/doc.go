// Package openapi exposes the public contracts for loading and parsing
// OpenAPI documents, plus the conversion of operation request schemas into
// parametrizations. Implementations live under internal/openapi to keep
// kin-openapi hidden from consumers.
package openapi
