// Package artifact loads and serves the versioned, read-only artifacts the
// query pipeline runs against: the answer embedding index, the optional
// question embedding index, the optional learned-reranker bundle, offline
// evaluation metrics, and the known-entity catalog.
//
// A Store owns one immutable Snapshot at a time. Reload compares a cheap
// mtime signature and, when stale, builds a complete replacement snapshot
// and installs it with an atomic pointer swap, so concurrent queries never
// observe partial state.
package artifact
