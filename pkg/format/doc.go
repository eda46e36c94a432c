// Package format implements the versioned binary resource encryption
// formats: the one-shot simple format (v3) and the chunked formats (v4, v8)
// for payloads too large to hold in memory. Blob layouts are frozen:
// ciphertext produced by any historical version stays decodable forever.
package format
