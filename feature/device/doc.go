// Package device owns the per-device account ledger and the admission gate
// that caps how many distinct accounts may register on one physical device.
//
// # Ledger
//
// A device document carries its account membership three times over:
// the accountIds set, the cached accountCount, and the embedded accounts
// list with per-account metadata. The Registry keeps the three redundant
// representations consistent on every mutation; the invariant is
// accountCount == |accountIds| == |accounts| with matching id sets.
//
// Devices are created on first login and never destroyed automatically;
// deletion is an explicit administrative action.
//
// # Admission
//
// The Gate is a pure read-side decision: it never mutates the ledger. A caller
// that receives an allow is expected to follow up with RegisterLogin. Because
// check and mutation are two separate operations against a store without
// conditional writes, two concurrent logins on the same device can both pass
// the check and transiently overrun the cap. That is accepted product
// behavior: the gate fails open on store errors too, prioritizing login
// availability over strict enforcement, so it must never be treated as a
// security boundary.
package device
