package httpx

import (
	"mime"
	"strings"
)

// MIME is a content-type label such as "application/json".
type MIME string

// Fallback labels assigned to bodies that carry no application specific type.
const (
	MIMEByteStream MIME = "application/octet-stream"
	MIMEPlain      MIME = "text/plain;charset=utf-8"
	MIMEJSON       MIME = "application/json"
	MIMEMsgPack    MIME = "application/msgpack"
	MIMEProtobuf   MIME = "application/protobuf"
)

// Essence returns the lower-cased "type/subtype" part of m without parameters.
func (m MIME) Essence() string {
	t, _, err := mime.ParseMediaType(string(m))
	if err != nil {
		// malformed parameters, keep whatever precedes them
		s := string(m)
		if i := strings.IndexByte(s, ';'); i != -1 {
			s = s[:i]
		}
		return strings.ToLower(strings.TrimSpace(s))
	}

	return t
}

func (m MIME) String() string {
	return string(m)
}
