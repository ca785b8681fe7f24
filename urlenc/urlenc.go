// Package urlenc implements the application/x-www-form-urlencoded decoder
// (component C): percent-decoding and &-delimited key=value lookups, the
// same minimal decoder libesphttpd's httpd.c inlines rather than pulling in
// a general URI library, reimplemented here as small, dependency-free
// helpers mirroring the shape of badu-http/url's QueryUnescape/ParseQuery.
package urlenc

import "strings"

func hexVal(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// Decode percent-decodes src in place of the rules: '+' becomes a space,
// "%HH" becomes the byte (hex(H1)<<4)|hex(H2) (illegal digits contribute 0),
// any other byte passes through unchanged. It returns the decoded bytes.
func Decode(src string) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '+':
			out = append(out, ' ')
		case c == '%' && i+2 < len(src):
			hi, _ := hexVal(src[i+1])
			lo, _ := hexVal(src[i+2])
			out = append(out, byte(hi<<4|lo))
			i += 2
		default:
			out = append(out, c)
		}
	}
	return out
}

// FindArg treats line as a sequence of &-delimited key=value pairs
// (terminated by the end of the string, matching the original's NUL/CR/LF
// termination since Go strings already stop at their own length) and
// returns the percent-decoded value of the first pair whose key exactly
// equals name, or ("", false) if name is absent.
func FindArg(line, name string) (string, bool) {
	for _, pair := range strings.Split(line, "&") {
		eq := strings.IndexByte(pair, '=')
		var key, val string
		if eq < 0 {
			key = pair
		} else {
			key = pair[:eq]
			val = pair[eq+1:]
		}
		if key == name {
			return string(Decode(val)), true
		}
	}
	return "", false
}
