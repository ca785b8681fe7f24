package ehttpd

// notFoundBody is the fixed fallback response body (§6) sent when no route
// table entry matches a request.
const notFoundBody = "404 File not found."

// notFoundHandler is installed as the engine's last resort when route
// resolution exhausts the table without a match. It is not itself a table
// entry, so it never gets to decline — it always answers.
func notFoundHandler(c *Conn) Status {
	if c.Gone() {
		return StatusDone
	}
	c.SetTransferMode(TransferClose)
	c.Send([]byte("HTTP/1.1 404 Not Found\r\n"))
	c.Send([]byte("Content-Type: text/plain\r\n"))
	if c.inst.corsEnabled {
		writeCORSHeaders(c, c.corsToken)
	}
	c.Send([]byte("Connection: close\r\n\r\n"))
	c.Send([]byte(notFoundBody))
	return StatusDone
}

// corsOrigin, corsMethods are the fixed CORS header values §6/§9 specify
// for a preflight or cross-origin response when the instance has CORS
// enabled.
const (
	corsOrigin  = "*"
	corsMethods = "GET,POST,OPTIONS"
)

// writeCORSHeaders appends the standard CORS response headers. On an
// OPTIONS preflight it also echoes back whatever Access-Control-Request-
// Headers the client asked for, the way a permissive preflight responder
// must.
func writeCORSHeaders(c *Conn, requestedHeaders string) {
	c.Send([]byte("Access-Control-Allow-Origin: " + corsOrigin + "\r\n"))
	c.Send([]byte("Access-Control-Allow-Methods: " + corsMethods + "\r\n"))
	if requestedHeaders != "" {
		c.Send([]byte("Access-Control-Allow-Headers: " + requestedHeaders + "\r\n"))
	}
}

// corsPreflightHandler answers an OPTIONS request when CORS is enabled,
// without ever reaching a real route handler.
func corsPreflightHandler(c *Conn) Status {
	if c.Gone() {
		return StatusDone
	}
	c.SetTransferMode(TransferClose)
	c.Send([]byte("HTTP/1.1 204 No Content\r\n"))
	writeCORSHeaders(c, c.corsToken)
	c.Send([]byte("Content-Length: 0\r\n"))
	c.Send([]byte("Connection: close\r\n\r\n"))
	return StatusDone
}
