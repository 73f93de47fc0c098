// Package database manages the SQLite store backing Gray M2M Core's
// persistent state, currently the bootstrapped Security instances.
//
// It wraps database/sql with lifecycle management and an embedded
// migration runner; migration SQL files live in the top-level
// migrations package and are compiled into the binary.
package database
