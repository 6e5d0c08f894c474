package httpx

var (
	scMap = map[uint]string{
		// status code: "reason phrase"
		100: "Continue",
		101: "Switching Protocols",
		200: "OK",
		201: "Created",
		202: "Accepted",
		204: "No Content",
		206: "Partial Content",
		301: "Moved Permanently",
		302: "Found",
		304: "Not Modified",
		400: "Bad Request",
		401: "Unauthorized",
		403: "Forbidden",
		404: "Not Found",
		405: "Method Not Allowed",
		411: "Length Required",
		413: "Content Too Large",
		415: "Unsupported Media Type",
		422: "Unprocessable Content",
		500: "Internal Server Error",
		501: "Not Implemented",
		502: "Bad Gateway",
		503: "Service Unavailable",
	}
)

// ReasonPhrase returns the standard phrase for sc, or "" if unknown.
func ReasonPhrase(sc uint) string {
	return scMap[sc]
}

// bodyless reports whether a response with status sc never carries a body.
func bodyless(sc uint) bool {
	return (100 <= sc && sc <= 199) || sc == 204 || sc == 304
}
