package hdr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRingFeedSingleShot(t *testing.T) {
	r := NewRing(1024)
	raw := []byte("GET /hello?x=1 HTTP/1.1\r\nHost: x\r\n\r\nleftover")
	consumed, complete := r.Feed(raw)
	require.True(t, complete)
	require.Equal(t, len(raw)-len("leftover"), consumed)

	req, ok := Parse(r.buf)
	require.True(t, ok)
	require.Equal(t, "GET", req.Method)
	require.Equal(t, "/hello", req.URL)
	require.Equal(t, "x=1", req.GetArgs)
	require.True(t, req.HTTP11)
	require.Equal(t, "x", req.Host)
}

func TestRingFeedArbitrarySplits(t *testing.T) {
	raw := []byte("POST /form HTTP/1.1\r\nHost: x\r\nContent-Length: 11\r\n\r\nname=worldX")
	headEnd := len(raw) - len("name=worldX")

	for trial := 0; trial < 50; trial++ {
		r := NewRing(1024)
		var leftover []byte
		pos := 0
		for pos < len(raw) && !r.Complete() {
			// Random chunk size between 1 and 7 bytes, arbitrary split.
			n := 1 + rand.Intn(7)
			if pos+n > len(raw) {
				n = len(raw) - pos
			}
			consumed, complete := r.Feed(raw[pos : pos+n])
			pos += consumed
			if complete {
				leftover = append(leftover, raw[pos:pos+n-consumed]...)
				break
			}
		}
		require.True(t, r.Complete())
		require.Equal(t, headEnd, pos)

		req, ok := Parse(r.buf)
		require.True(t, ok)
		require.Equal(t, "POST", req.Method)
		require.Equal(t, "/form", req.URL)
		require.True(t, req.HasContentLength)
		require.EqualValues(t, 11, req.ContentLength)
	}
}

func TestRingLoneLFPromoted(t *testing.T) {
	r := NewRing(1024)
	raw := []byte("GET /x HTTP/1.0\nHost: y\n\n")
	_, complete := r.Feed(raw)
	require.True(t, complete)

	req, ok := Parse(r.buf)
	require.True(t, ok)
	require.Equal(t, "/x", req.URL)
	require.Equal(t, "y", req.Host)
	require.False(t, req.HTTP11)
}

func TestRingOverflowStillFindsTerminator(t *testing.T) {
	r := NewRing(8)
	raw := []byte("GET /aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa HTTP/1.1\r\nHost: x\r\n\r\n")
	_, complete := r.Feed(raw)
	require.True(t, complete)
	require.True(t, r.Overflowed())
	require.LessOrEqual(t, r.Len(), 8)
}

func TestRingMultipartBoundary(t *testing.T) {
	r := NewRing(1024)
	raw := []byte("POST /up HTTP/1.1\r\nContent-Type: multipart/form-data; boundary=XYZ\r\n\r\n")
	r.Feed(raw)
	req, ok := Parse(r.buf)
	require.True(t, ok)
	require.Equal(t, "--XYZ", req.MultipartBoundary)
}

func TestRingMalformedContentLength(t *testing.T) {
	r := NewRing(1024)
	raw := []byte("GET /x HTTP/1.1\r\nContent-Length: notanumber\r\n\r\n")
	r.Feed(raw)
	req, ok := Parse(r.buf)
	require.True(t, ok)
	require.True(t, req.Malformed)
	require.False(t, req.HasContentLength)
}

func TestRingConnectionClose(t *testing.T) {
	r := NewRing(1024)
	raw := []byte("GET /x HTTP/1.1\r\nConnection: close\r\n\r\n")
	r.Feed(raw)
	req, ok := Parse(r.buf)
	require.True(t, ok)
	require.True(t, req.ConnectionClose)
}

func TestRingCORSHeader(t *testing.T) {
	r := NewRing(1024)
	raw := []byte("OPTIONS /x HTTP/1.1\r\nHost: x\r\nAccess-Control-Request-Headers: X-Foo\r\n\r\n")
	r.Feed(raw)
	req, ok := Parse(r.buf)
	require.True(t, ok)
	require.Equal(t, "X-Foo", req.CORSRequestHdrs)
}

func TestRingReset(t *testing.T) {
	r := NewRing(1024)
	r.Feed([]byte("GET /x HTTP/1.1\r\n\r\n"))
	require.True(t, r.Complete())
	r.Reset()
	require.False(t, r.Complete())
	require.Equal(t, 0, r.Len())
}
