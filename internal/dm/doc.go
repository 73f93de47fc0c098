// Package dm implements the data-model core of Gray M2M: the generic
// contract every manageable object satisfies, and the registry that
// dispatches server requests to registered objects.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                         Registry                             │
//	│                                                              │
//	│  ┌────────────────┐   ┌────────────────┐  ┌───────────────┐  │
//	│  │    Dispatch    │   │  Transactions  │  │ Typed readers │  │
//	│  │  (registry.go) │──▶│  (registry.go) │  │ (registry.go) │  │
//	│  │                │   │                │  │               │  │
//	│  │ • by object ID │   │ • begin/commit │  │ • string/int/ │  │
//	│  │ • thread-safe  │   │ • rollback all │  │   bytes paths │  │
//	│  └────────────────┘   └────────────────┘  └───────────────┘  │
//	└──────────┬───────────────────────────────────────────────────┘
//	           │ Object contract (object.go)
//	           ▼
//	┌────────────────────┐ ┌────────────────────┐ ┌────────────────┐
//	│  clock.Object      │ │  portfolio.Object  │ │ security.Object│
//	│  (OID 3333)        │ │  (OID 16)          │ │ (OID 0)        │
//	└────────────────────┘ └────────────────────┘ └────────────────┘
//
// # Key Types
//
//   - Object: the contract for instance lifecycle and resource access
//   - Transactional: optional snapshot-based commit/rollback support
//   - Value: tagged resource value (int, string or bytes)
//   - ResourceDef: static resource metadata emitted by ListResources
//
// # Transactions
//
// A batch of server-driven mutations is made atomic with
// Registry.InTransaction: every affected object that implements
// Transactional is snapshotted before the mutation function runs, and
// all snapshots are either discarded (commit) or restored (rollback)
// together. At most one transaction may be in flight per object; the
// registry serialises transactions globally.
//
// # Thread Safety
//
// The Registry is safe for concurrent use. Objects themselves assume a
// single logical owner: all mutation goes through the registry's
// transaction coordinator or through startup wiring before the
// dispatcher is running.
package dm
