// Command ehttpd-demo wires an Instance to a real TCP listener and exercises
// the engine end to end: a static greeting route, a chunked streaming
// route, a form-decoding POST route, a raw-byte echo route, a static-file
// route, and the built-in 404 fallback — a small, runnable proof the pieces
// fit together, wired cobra-style the way leo-pony-model-runner/cmd/cli
// boots its own server command.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/BastianRuppert/ehttpd"
	"github.com/BastianRuppert/ehttpd/config"
	"github.com/BastianRuppert/ehttpd/escape"
	internallog "github.com/BastianRuppert/ehttpd/internal/log"
	"github.com/BastianRuppert/ehttpd/mime"
	"github.com/BastianRuppert/ehttpd/route"
	"github.com/BastianRuppert/ehttpd/transport/nettransport"
	"github.com/BastianRuppert/ehttpd/urlenc"
)

func main() {
	var (
		addr       string
		configPath string
	)

	root := &cobra.Command{
		Use:   "ehttpd-demo",
		Short: "Run a small demo server on top of the ehttpd engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cfg = loaded
			} else if err := (&cfg).ResolveDefaults(); err != nil {
				return fmt.Errorf("resolve defaults: %w", err)
			}

			log := internallog.Configure(cfg.LogLevel)

			inst := ehttpd.NewInstance(cfg.Resolved, cfg.CORSEnabled, routes())
			inst.SetLogger(log)

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			log.WithField("addr", addr).Info("ehttpd-demo listening")

			listener := nettransport.New(inst, ln, 0, log)
			return listener.Serve()
		},
	}
	root.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	root.Flags().StringVar(&configPath, "config", "", "optional YAML config file (see config.Config)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func routes() []route.Entry[ehttpd.Handler] {
	return []route.Entry[ehttpd.Handler]{
		{Pattern: "/hello", Handler: helloHandler},
		{Pattern: "/stream", Handler: streamHandler},
		{Pattern: "/form", Handler: formHandler},
		{Pattern: "/echo", Handler: echoHandler},
		{Pattern: "/static/*", Handler: staticHandler, Arg1: "."},
	}
}

// helloHandler answers scenario (a) from the testable-properties list: its
// whole response is written in one invocation, then DONE.
func helloHandler(c *ehttpd.Conn) ehttpd.Status {
	if c.Gone() {
		return ehttpd.StatusDone
	}
	name := "world"
	if v, ok := urlenc.FindArg(c.GetArgs(), "name"); ok {
		name = v
	}
	c.Respond()
	c.Send([]byte("hello, "))
	escape.HTML(c, []byte(name))
	return ehttpd.StatusDone
}

// streamHandler demonstrates the multi-cycle MORE contract: it emits one
// line per resume cycle up to a small fixed count, then DONE.
func streamHandler(c *ehttpd.Conn) ehttpd.Status {
	if c.Gone() {
		return ehttpd.StatusDone
	}
	c.Respond()
	n, _ := c.State().(int)
	c.Send([]byte(fmt.Sprintf("line %d\n", n)))
	n++
	if n >= 5 {
		return ehttpd.StatusDone
	}
	c.SetState(n)
	return ehttpd.StatusMore
}

// formHandler demonstrates Content-Length-bounded body buffering plus the
// form decoder (component C).
func formHandler(c *ehttpd.Conn) ehttpd.Status {
	if c.Gone() {
		return ehttpd.StatusDone
	}
	if c.Method() != ehttpd.MethodPost {
		return ehttpd.StatusNotFound
	}
	if c.PostReceived() < c.PostLength() {
		return ehttpd.StatusMore // wait for the rest of the body
	}
	line := string(c.PostChunk())
	c.Respond()
	if v, ok := urlenc.FindArg(line, "name"); ok {
		c.Send([]byte("hello, "))
		c.Send([]byte(v))
	} else {
		c.Send([]byte("missing name"))
	}
	return ehttpd.StatusDone
}

// echoHandler demonstrates Conn.SetRecvHandler: once the preamble opens a
// TransferNone span, subsequent raw bytes for this connection bypass the
// bounded post buffer entirely and are handed straight to the callback, the
// way a WebSocket frame reader would consume them.
func echoHandler(c *ehttpd.Conn) ehttpd.Status {
	if c.Gone() {
		return ehttpd.StatusDone
	}
	c.SetTransferMode(ehttpd.TransferNone)
	c.Respond()
	c.SetRecvHandler(func(conn *ehttpd.Conn, data []byte) {
		conn.Send(data)
	})
	return ehttpd.StatusMore
}

// staticHandler demonstrates mime.Lookup and mime.CacheControlFor over a
// fixed under-current-directory root given as Arg1: the resolved MIME type
// becomes the Content-Type header, and its suggested Cache-Control (when
// not one of the exempted types) rides along, via SetContentType/
// SetCacheControl ahead of Respond.
func staticHandler(c *ehttpd.Conn) ehttpd.Status {
	if c.Gone() {
		return ehttpd.StatusDone
	}
	root, _ := c.Arg1().(string)
	rel := c.URL()[len("/static/"):]
	data, err := os.ReadFile(root + "/" + rel)
	if err != nil {
		return ehttpd.StatusNotFound
	}
	mimeType := mime.Lookup(rel)
	c.SetContentType(mimeType)
	if cc := mime.CacheControlFor(mimeType); cc != "" {
		c.SetCacheControl(cc)
	}
	c.Respond()
	c.Send(data)
	return ehttpd.StatusDone
}
