// Package stream provides cooperative, single-threaded transforms over the
// chunked encryption formats, for payloads too large to hold in memory.
// Encryption runs in O(chunk capacity) memory regardless of total size.
// Decryption holds at most one sealed chunk plus, for the padded format,
// the longest run of trailing zero bytes seen so far: a candidate padding
// suffix cannot be released downstream until later bytes prove it is data.
package stream
