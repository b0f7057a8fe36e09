// Package store defines the persistence collaborators for templates and
// submissions. Implementations live in pkg/store/memory and
// internal/store/sqlite; both satisfy the contract in pkg/store/storetest.
package store
