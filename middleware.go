package odata

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gostratum/core/logx"
)

// Middleware allows chaining custom RoundTrippers around the base transport.
type Middleware func(http.RoundTripper) http.RoundTripper

func wrapTransport(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	rt := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			rt = middlewares[i](rt)
		}
	}
	return rt
}

// newGzipMiddleware advertises gzip/deflate and transparently inflates the
// response so the JSON decoder always sees plain bytes.
func newGzipMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("Accept-Encoding") == "" {
				req = req.Clone(req.Context())
				req.Header.Set("Accept-Encoding", "gzip, deflate")
			}
			resp, err := next.RoundTrip(req)
			if err != nil || resp == nil || resp.Body == nil {
				return resp, err
			}

			switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
			case "gzip":
				reader, err := gzip.NewReader(resp.Body)
				if err != nil {
					_ = resp.Body.Close()
					return nil, err
				}
				resp.Body = wrapBody(reader, resp.Body)
				resp.Header.Del("Content-Encoding")
				resp.ContentLength = -1
			case "deflate":
				reader, err := newDeflateReader(resp.Body)
				if err != nil {
					_ = resp.Body.Close()
					return nil, err
				}
				resp.Body = wrapBody(reader, resp.Body)
				resp.Header.Del("Content-Encoding")
				resp.ContentLength = -1
			}

			return resp, nil
		})
	}
}

func newLoggingMiddleware(logger logx.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)
			if err != nil {
				logger.Debug("odata request failed",
					logx.String("method", req.Method),
					logx.String("url", req.URL.String()),
					logx.String("error", err.Error()),
					logx.String("elapsed", elapsed.String()),
				)
				return resp, err
			}
			logger.Debug("odata request completed",
				logx.String("method", req.Method),
				logx.String("url", req.URL.String()),
				logx.Int("status", resp.StatusCode),
				logx.String("elapsed", elapsed.String()),
			)
			return resp, nil
		})
	}
}

// newDeflateReader decodes HTTP "deflate", which is zlib-wrapped. Servers
// that send raw DEFLATE instead are recognised by the missing zlib header.
func newDeflateReader(body io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(body)
	header, err := br.Peek(2)
	if err == nil && isZlibHeader(header[0], header[1]) {
		return zlib.NewReader(br)
	}
	return flate.NewReader(br), nil
}

// isZlibHeader checks CM=8 and the FCHECK multiple of 31 (RFC 1950). A raw
// DEFLATE stream never has low nibble 8: zero BFINAL/BTYPE bits mean a stored
// block, whose remaining header bits are zero padding.
func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func wrapBody(reader io.ReadCloser, original io.ReadCloser) io.ReadCloser {
	return &multiCloser{
		ReadCloser: reader,
		original:   original,
	}
}

type multiCloser struct {
	io.ReadCloser
	original io.ReadCloser
}

func (m *multiCloser) Close() error {
	err := m.ReadCloser.Close()
	_ = m.original.Close()
	return err
}
