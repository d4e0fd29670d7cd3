// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is termplot's single CBOR configuration.
//
// Everything termplot puts on a socket goes through this package so
// encoder and decoder settings cannot drift between server and
// client. Encoding is Core Deterministic (RFC 8949 §4.2): the same
// value always produces the same bytes. Times encode as RFC 3339 text
// with nanoseconds. Unknown fields are ignored on decode, so a newer
// server can add fields without breaking an older client.
//
// Structs carried by this codec use `cbor:"..."` field tags.
package codec
