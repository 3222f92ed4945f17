package helloserver

import (
	"io"
	"net"
	"regexp"
	"strings"
	"time"
)

var requestRE = regexp.MustCompile(`GET /(\w+) HTTP/1\.1\r\n`)

const okPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Hello!</title>
  </head>
  <body>
    <p>Result for key "{key}" is "{result}"</p>
  </body>
</html>`

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8">
    <title>Hello!</title>
  </head>
  <body>
    <h1>Oops!</h1>
    <p>Sorry, I don't know what you're asking for.</p>
  </body>
</html>`

// Handler answers one request per connection out of a shared cache.
// Copying a Handler is cheap and safe: the cache it wraps is referenced,
// not duplicated.
type Handler struct {
	cache *Cache[string, string]
}

// NewHandler returns a Handler with a fresh, empty cache.
func NewHandler() *Handler {
	return &Handler{cache: NewCache[string, string]()}
}

// veryExpensiveComputation stands in for whatever costly work a real key
// would require.
func veryExpensiveComputation(key string) string {
	time.Sleep(3 * time.Second)
	return key + "\U0001F415"
}

// HandleConn reads one HTTP/1.1 GET request off conn, answers it from the
// cache (computing the result at most once per key), and returns a Report
// describing what was asked for.
func (h *Handler) HandleConn(id int, conn net.Conn) Report {
	defer conn.Close()

	buf := make([]byte, 512)
	n, _ := conn.Read(buf)

	match := requestRE.FindSubmatch(buf[:n])

	var key *string
	var resp string
	if match != nil {
		k := string(match[1])
		key = &k
		result := h.cache.GetOrInsert(k, veryExpensiveComputation)
		body := strings.NewReplacer("{key}", k, "{result}", result).Replace(okPage)
		resp = "HTTP/1.1 200 OK\r\n\r\n" + body
	} else {
		resp = "HTTP/1.1 404 NOT FOUND\r\n\r\n" + notFoundPage
	}

	io.WriteString(conn, resp)
	return NewReport(id, key)
}
