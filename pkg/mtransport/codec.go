// Package mtransport holds the wire codec shared by every broker producer
// and consumer, and by the cache adapters that store binary-encoded
// snapshots and rendezvous-set members. Grounded on the teacher's own use of
// vmihailenco/msgpack for RabbitMQ message bodies
// (components/transaction/internal/services/command/msgpack_operations_test.go),
// generalised here to every message type this system moves over the wire.
package mtransport

import "github.com/vmihailenco/msgpack/v5"

// Encode msgpack-encodes v, the "binary-encoded framed record" format
// spec.md §6 calls for.
func Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode msgpack-decodes data into v.
func Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
