// Package bencode decodes and encodes the self-describing bencode format.
//
// Values keep dict entries in wire order so that a decoded tree can be
// displayed exactly as it was sent and re-encoded byte for byte.
package bencode
