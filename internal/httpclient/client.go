// Package httpclient builds the HTTP client used to reach S3-compatible
// object stores, and checks configured endpoint URLs before they are used.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/drix00/xray-spectrum-analyzer/errors"
)

// Defaults
const (
	// DefaultTimeout bounds a whole request, body included. Full relaxation
	// tables are a few megabytes.
	DefaultTimeout      = 2 * time.Minute
	DefaultMaxRedirects = 5
)

// Options configures New.
type Options struct {
	Timeout      time.Duration // 0 means DefaultTimeout
	MaxRedirects int           // 0 means DefaultMaxRedirects
	// BlockPrivate refuses loopback, private and link-local addresses, both
	// in URLs and after DNS resolution. Off by default: MinIO usually runs
	// on localhost or a private network.
	BlockPrivate bool
}

// New returns an http.Client enforcing opts.
func New(opts Options) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.BlockPrivate {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, errors.Wrap(err, "invalid address")
			}
			// resolved addresses are checked so DNS cannot point back inside
			ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
			if err != nil {
				return nil, errors.Wrapf(err, "resolve host %q", host)
			}
			for _, ip := range ips {
				if isPrivate(ip) {
					return nil, errors.Newf("private address blocked: %s", ip)
				}
			}
			return dialer.DialContext(ctx, network, addr)
		}
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return errors.Newf("stopped after %d redirects", opts.MaxRedirects)
			}
			if err := checkURL(req.URL, opts.BlockPrivate); err != nil {
				return errors.Wrap(err, "redirect blocked")
			}
			return nil
		},
	}
}

// ValidateEndpoint parses an object store endpoint such as
// "http://localhost:9000". Failures are invalid request errors.
func ValidateEndpoint(raw string, blockPrivate bool) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.NewInvalidRequestError("endpoint %q is not a URL: %v", raw, err)
	}
	if err := checkURL(u, blockPrivate); err != nil {
		return nil, errors.NewInvalidRequestError("endpoint %q: %v", raw, err)
	}
	return u, nil
}

func checkURL(u *url.URL, blockPrivate bool) error {
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return errors.Newf("scheme %q not allowed (want http or https)", u.Scheme)
	}
	// credentials belong in the AWS chain, and user@host hides the real host
	if u.User != nil {
		return errors.New("URL must not contain user info")
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("URL missing hostname")
	}

	if !blockPrivate {
		return nil
	}
	if isLocalhost(host) {
		return errors.New("localhost access blocked")
	}
	if ip, err := netip.ParseAddr(host); err == nil && isPrivate(ip) {
		return errors.Newf("private address blocked: %s", host)
	}
	return nil
}

// reserved covers the ranges IsPrivate and friends miss.
var reserved = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("fec0::/10"),     // site-local, deprecated
	netip.MustParsePrefix("2001:db8::/32"), // documentation
}

func isPrivate(ip netip.Addr) bool {
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, p := range reserved {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

func isLocalhost(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" ||
		host == "localhost.localdomain" ||
		strings.HasSuffix(host, ".localhost")
}
