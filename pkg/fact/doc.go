// Package fact defines the typed fact model at the heart of kith: subjects,
// immutable facts, and the lifecycle events (supersession, retraction) that
// describe how a fact's derived status changes over time.
//
// Nothing in this package touches storage or I/O. It is the vocabulary that
// pkg/ledger, pkg/vcard, pkg/diff, and pkg/etag all share.
package fact
