package escape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	out  []byte
	fail bool
}

func (f *fakeSender) Send(data []byte) bool {
	if f.fail {
		return false
	}
	f.out = append(f.out, data...)
	return true
}

func TestHTMLEscape(t *testing.T) {
	s := &fakeSender{}
	ok := HTML(s, []byte(`<a href="x">it's</a>`))
	require.True(t, ok)
	require.Equal(t, `&lt;a href=&#34;x&#34;&gt;it&#39;s&lt;/a&gt;`, string(s.out))
}

func TestHTMLStopsAtNUL(t *testing.T) {
	s := &fakeSender{}
	HTML(s, []byte("abc\x00<ignored>"))
	require.Equal(t, "abc", string(s.out))
}

func TestJSEscape(t *testing.T) {
	s := &fakeSender{}
	ok := JS(s, []byte("a\"b'c\\d<e>f\ng\rh"))
	require.True(t, ok)
	require.Equal(t, "a\\\"b\\'c\\\\d\\u003Ce\\u003Ef\\ng\\rh", string(s.out))
}

func TestEscapeFailsOnSendFailure(t *testing.T) {
	s := &fakeSender{fail: true}
	require.False(t, HTML(s, []byte("<x>")))
}
