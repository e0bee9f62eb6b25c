// Package message implements the Shinkansen payment message model: payin and
// payout instruction messages on the outbound path, and status response
// messages on the inbound path.
//
// Every message serializes to a {"document": ...} JSON envelope whose exact
// bytes are what gets signed (outbound) or verified (inbound). Optional
// attributes that are unset are omitted from the serialized form entirely,
// never emitted as null; required attributes, including empty containers, are
// always emitted. Field order follows the declared attribute order and array
// order is preserved as constructed or parsed.
//
// Inbound response messages keep the raw bytes they were parsed from, and
// signature verification only ever runs over that buffer. Re-serializing a
// parsed message is not a substitute: two serializers are never guaranteed
// byte-identical output.
package message
