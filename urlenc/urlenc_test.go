package urlenc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeBasic(t *testing.T) {
	require.Equal(t, "hello world", string(Decode("hello+world")))
	require.Equal(t, "a b", string(Decode("a%20b")))
	require.Equal(t, []byte{0}, Decode("%zz")) // illegal hex digits contribute 0
}

func TestDecodeInverseOfMinimalEncoder(t *testing.T) {
	// encode the byte set kept raw per property 2, ' '->'+', else %HH.
	encode := func(s string) string {
		var b []byte
		for i := 0; i < len(s); i++ {
			c := s[i]
			switch {
			case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
				c == '_', c == '.', c == '~', c == '-':
				b = append(b, c)
			case c == ' ':
				b = append(b, '+')
			default:
				b = append(b, []byte{'%', "0123456789ABCDEF"[c>>4], "0123456789ABCDEF"[c&0xf]}...)
			}
		}
		return string(b)
	}

	for _, s := range []string{"hello world", "a=b&c", "path/to?x", "日本語ish", ""} {
		require.Equal(t, s, string(Decode(encode(s))))
	}
}

func TestFindArg(t *testing.T) {
	val, ok := FindArg("name=world&x=1", "name")
	require.True(t, ok)
	require.Equal(t, "world", val)

	_, ok = FindArg("name=world", "missing")
	require.False(t, ok)

	val, ok = FindArg("q=a%20b+c", "q")
	require.True(t, ok)
	require.Equal(t, "a b c", val)
}

func TestFindArgFirstOccurrenceWins(t *testing.T) {
	val, ok := FindArg("k=first&k=second", "k")
	require.True(t, ok)
	require.Equal(t, "first", val)
}
