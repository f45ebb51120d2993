// Package repositories implements SQLite persistence for durable client state.
//
// Key Implementations:
//   - [KVRepository] : key-value slots in the kv_store table with upsert and revision counting
//
// The library store persists its whole state as a single JSON payload under one slot,
// so a generic key-value table is all the schema needs.
// Missing keys surface as [shared.ErrNotFound].
package repositories
