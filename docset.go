// Package docset manages a local, queryable replica of published
// documentation sets and provides fuzzy lookup across every installed set.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/, goquery/).
package docset
