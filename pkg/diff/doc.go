// Package diff computes the minimal ledger delta that reconciles an
// incoming vCard with a subject's current materialised view, per the
// reconciliation algorithm: new facts for unmatched incoming facts,
// supersessions for matched-but-changed facts, and retractions for active
// facts the incoming vCard no longer mentions.
package diff
