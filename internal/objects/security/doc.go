// Package security implements the Security object (OID 0).
//
// Each instance stores the connection material for one server account:
// the server URI, the security mode code, the client and server key
// material, the secret key and the short server ID. The
// secure-transport resolver reads these resources through the registry
// when a connection is (re)established.
//
// Instances survive restarts through a SQLite repository; the object
// itself is plain in-memory state like every other object.
package security
