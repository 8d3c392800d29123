// Package billing is the folio aggregation engine.
//
// A ledger keeps its charges as a ragged set of room slots, each slot holding
// parallel per-line sequences. The store functions (EnsureSlot, WriteSlot,
// AppendRemarks) change that structure; the Engine derives every monetary
// field from it. Money and rates are exact decimals and nothing is rounded
// until an invoice is presented.
package billing
