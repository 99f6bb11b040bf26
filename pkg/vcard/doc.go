// Package vcard implements a pure, synchronous vCard 3.0/4.0 codec: bytes in,
// facts out (Parse) and a materialised contact view in, bytes out (Serialize).
// Neither direction touches a store or the network — both are plain
// functions over in-memory values.
package vcard
