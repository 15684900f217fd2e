// Package wire implements the request/response cycle of the client.
//
// A cycle opens one connection, writes a single request line and reads the
// reply until a complete top-level JSON object has been seen. There is no
// HTTP framing and no length header: the end of the reply is found by the
// brace-counting Scanner, which ignores braces inside string literals and
// never interprets the byte that follows a backslash.
//
// DecodeEscapes is an independent helper that rewrites \uXXXX escapes into
// UTF-8 before the text is handed to a JSON decoder.
package wire
