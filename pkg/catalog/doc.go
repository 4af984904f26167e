// Package catalog defines the record types of the application catalog:
// applications, the dependency edges between them, their API routes, and
// their deployments.
//
// These are the flat, persistence-shaped records. The derived dependency
// graph built from them lives in package depgraph; catalog deliberately
// knows nothing about traversal.
//
// All types carry both json and bson tags so the same structs serve the
// HTTP API and the MongoDB store. Enum-like fields (application type and
// status, dependency type and criticality) are closed string types with an
// explicit fallback variant; see enums.go.
package catalog
