// Command echo is a small HTTP/1.1 server that answers every request with
// its own body. JSON, msgpack and protobuf bodies are decoded and
// re-encoded so the content type round trips through a codec.
package main

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"

	"github.com/k3nju/httpx"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	l, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Error("listen failed", "addr", *addr, "error", err)
		os.Exit(1)
	}
	logger.Info("listening", "addr", l.Addr().String())

	for {
		c, err := l.Accept()
		if err != nil {
			logger.Error("accept failed", "error", err)
			continue
		}
		go func() {
			bc := httpx.NewBufConn(c)
			defer bc.Close()
			handle(bc, logger.With("remote", c.RemoteAddr().String()))
		}()
	}
}

func handle(rw httpx.ReadWriter, logger *slog.Logger) {
	for {
		req, err := httpx.ReadRequest(rw)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("reading request failed", "error", err)
			}
			return
		}
		logger.Debug("request", "method", req.Method, "target", req.RequestTarget, "body", req.Body())

		res := echo(req)
		res.HTTPVersion = req.HTTPVersion
		logger.Debug("response", "status", res.StatusCode, "body", res.Body())

		if err := httpx.WriteResponse(rw, res); err != nil {
			logger.Warn("writing response failed", "error", err)
			return
		}
		if !keepAlive(req, res) {
			return
		}
	}
}

// keepAlive reports whether the connection can serve another request.
func keepAlive(req *httpx.Request, res *httpx.Response) bool {
	// an unread or half read request body leaves the stream unusable
	if res.StatusCode >= 400 || !res.HTTPVersion.AtLeast(1, 1) {
		return false
	}
	for _, v := range req.Headers.Values("Connection") {
		if strings.EqualFold(v, "close") {
			return false
		}
	}
	return true
}

func echo(req *httpx.Request) *httpx.Response {
	ct := req.ContentType()
	res := httpx.NewResponse(200)

	codec, ok := httpx.CodecFor(ct)
	if !ok {
		res.SetContentType(ct)
		res.SetBody(req.TakeBody())
		return res
	}

	if codec.ContentType() == httpx.MIMEProtobuf {
		// decoding protobuf needs a concrete message type
		return errorResponse(415, errors.New("protobuf bodies are not echoed"))
	}

	var v any
	if err := req.BodyDecode(&v); err != nil {
		return errorResponse(400, err)
	}

	body, err := httpx.BodyFromValue(v, codec)
	if err != nil {
		return errorResponse(500, err)
	}
	res.SetBody(body)

	return res
}

func errorResponse(sc uint, err error) *httpx.Response {
	res := httpx.NewResponse(sc)
	res.SetBody(httpx.BodyFromString(err.Error() + "\n"))
	return res
}
