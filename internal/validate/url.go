package validate

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrBlockedURL     = errors.New("url matches the blocklist")
	ErrUnreachableURL = errors.New("url is not reachable")
)

// Hosts we refuse to shorten: nested shorteners plus a small example
// blocklist. Extend via NewURLValidator.
var defaultBlockedHosts = []string{
	"bit.ly", "tinyurl.com", "short.link",
	"malware.com", "phishing.com",
}

var defaultBlockedKeywords = []string{
	"phishing", "malware", "virus", "hack", "scam",
}

// URLValidator is the external safety collaborator for submissions. The
// submission service treats any veto as policy, not core logic.
type URLValidator struct {
	checkReachability bool
	client            *http.Client
	blockedHosts      []string
	blockedKeywords   []string
}

func NewURLValidator(checkReachability bool, probeTimeout time.Duration, extraHosts ...string) *URLValidator {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &URLValidator{
		checkReachability: checkReachability,
		client:            &http.Client{Timeout: probeTimeout},
		blockedHosts:      append(append([]string{}, defaultBlockedHosts...), extraHosts...),
		blockedKeywords:   defaultBlockedKeywords,
	}
}

// Vet checks a parsed, normalized URL against the blocklist and, when
// enabled, probes it with a HEAD request.
func (v *URLValidator) Vet(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ErrBlockedURL
	}

	host := strings.ToLower(parsed.Hostname())
	for _, blocked := range v.blockedHosts {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return ErrBlockedURL
		}
	}

	lowered := strings.ToLower(raw)
	for _, kw := range v.blockedKeywords {
		if strings.Contains(lowered, kw) {
			return ErrBlockedURL
		}
	}

	if v.checkReachability && !v.reachable(raw) {
		return ErrUnreachableURL
	}
	return nil
}

func (v *URLValidator) reachable(raw string) bool {
	resp, err := v.client.Head(raw)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

// Normalize canonicalizes a target URL for dedup comparison: scheme and host
// lowercased, default port and trailing slash stripped, fragment dropped.
func Normalize(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	host := strings.ToLower(parsed.Hostname())
	port := parsed.Port()
	if port != "" && !isDefaultPort(parsed.Scheme, port) {
		host = host + ":" + port
	}
	parsed.Host = host
	parsed.Fragment = ""
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return parsed.String(), nil
}

func isDefaultPort(scheme, port string) bool {
	return (scheme == "http" && port == "80") || (scheme == "https" && port == "443")
}
