// server/redirect.go
package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// redirectHandler sends every plain-HTTP request to the same host and path
// over HTTPS on httpsPort. Hosts or URIs that could smuggle headers get a 400.
func redirectHandler(httpsPort int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uri := r.URL.RequestURI()
		if !isValidHost(r.Host) || hasControlChars(uri) {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "https://"+httpsHost(r.Host, httpsPort)+uri, http.StatusMovedPermanently)
	})
}

// httpsHost replaces any port in host with port. 443 and 0 leave the
// port off so URLs stay canonical.
func httpsHost(host string, port int) string {
	name := strings.Trim(host, "[]")
	if h, _, err := net.SplitHostPort(host); err == nil {
		name = h
	}
	if port == 0 || port == 443 {
		if strings.Contains(name, ":") {
			return "[" + name + "]"
		}
		return name
	}
	return net.JoinHostPort(name, strconv.Itoa(port))
}

func hasControlChars(s string) bool {
	for _, c := range s {
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}

// isValidHost accepts host, host:port, and bracketed IPv6 (with optional
// zone). It rejects control characters, schemes and paths.
func isValidHost(host string) bool {
	if host == "" || hasControlChars(host) {
		return false
	}
	if strings.Contains(host, "://") || strings.ContainsAny(host, "/\\ ") {
		return false
	}

	name := host
	if h, port, err := net.SplitHostPort(host); err == nil {
		n, perr := strconv.Atoi(port)
		if perr != nil || n < 1 || n > 65535 {
			return false
		}
		name = h
		if strings.Contains(name, ":") {
			// SplitHostPort strips brackets, so this was "[v6]:port".
			return validIPv6(name)
		}
	}
	if name == "" {
		return false
	}

	if strings.HasPrefix(name, "[") || strings.HasSuffix(name, "]") {
		if len(name) < 3 || name[0] != '[' || name[len(name)-1] != ']' {
			return false
		}
		return validIPv6(name[1 : len(name)-1])
	}
	return true
}

func validIPv6(s string) bool {
	if i := strings.IndexByte(s, '%'); i != -1 {
		s = s[:i]
	}
	return net.ParseIP(s) != nil
}
