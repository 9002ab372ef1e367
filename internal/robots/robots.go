// Package robots fetches and evaluates robots.txt for the scan target so
// the scanner only reads pages the site operator permits.
package robots

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Rules is a parsed robots.txt document.
type Rules struct {
	Groups []Group
}

// Group is one user-agent block with its directives.
type Group struct {
	Agents     []string
	Allow      []string
	Disallow   []string
	CrawlDelay *time.Duration
}

// Decision is the outcome of evaluating a target URL against the site's
// robots.txt.
type Decision struct {
	Allowed bool
	// CrawlDelay is the delay the matched group requests between fetches,
	// nil when unset.
	CrawlDelay *time.Duration
	// Reason states why the decision fell out the way it did, for logging.
	Reason string
}

// Manager fetches robots.txt per host and caches parsed rules in memory.
type Manager struct {
	HTTPClient        *http.Client
	UserAgent         string
	EntryExpiry       time.Duration
	AllowPrivateHosts bool

	mu  sync.Mutex
	mem map[string]memEntry
	now func() time.Time
}

type memEntry struct {
	rules  Rules
	expiry time.Time
}

// Check evaluates whether the target URL may be fetched by this scanner's
// user agent. An unreachable or missing robots.txt permits the fetch (the
// conventional default-allow posture); an explicit disallow denies it.
func (m *Manager) Check(ctx context.Context, target string) (Decision, error) {
	u, err := url.Parse(target)
	if err != nil {
		return Decision{}, fmt.Errorf("parse url: %w", err)
	}
	if !isHTTPScheme(u) {
		return Decision{}, fmt.Errorf("unsupported url scheme: %q", target)
	}
	host := u.Hostname()
	if !m.AllowPrivateHosts && isLocalOrPrivateHost(host) {
		return Decision{}, fmt.Errorf("private host not allowed: %s", host)
	}

	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"
	rules, err := m.rules(ctx, robotsURL)
	if err != nil {
		return Decision{Allowed: true, Reason: "robots.txt unavailable: " + err.Error()}, nil
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if !rules.IsAllowed(m.UserAgent, path) {
		return Decision{Allowed: false, Reason: "disallowed by robots.txt"}, nil
	}
	return Decision{Allowed: true, CrawlDelay: rules.CrawlDelayFor(m.UserAgent), Reason: "allowed by robots.txt"}, nil
}

func (m *Manager) rules(ctx context.Context, robotsURL string) (Rules, error) {
	if m.now == nil {
		m.now = time.Now
	}
	m.mu.Lock()
	if m.mem == nil {
		m.mem = make(map[string]memEntry)
	}
	if ent, ok := m.mem[robotsURL]; ok && m.now().Before(ent.expiry) {
		r := ent.rules
		m.mu.Unlock()
		return r, nil
	}
	m.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return Rules{}, fmt.Errorf("new request: %w", err)
	}
	if m.UserAgent != "" {
		req.Header.Set("User-Agent", m.UserAgent)
	}
	client := m.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Rules{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Rules{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Rules{}, fmt.Errorf("read robots: %w", err)
	}
	rules := parseRobots(string(data))
	m.storeMem(robotsURL, rules)
	return rules, nil
}

func (m *Manager) storeMem(key string, rules Rules) {
	exp := m.EntryExpiry
	if exp <= 0 {
		exp = 30 * time.Minute
	}
	m.mu.Lock()
	m.mem[key] = memEntry{rules: rules, expiry: m.now().Add(exp)}
	m.mu.Unlock()
}

func parseRobots(text string) Rules {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var groups []Group
	current := Group{}
	flush := func() {
		if len(current.Agents) == 0 && len(current.Allow) == 0 && len(current.Disallow) == 0 && current.CrawlDelay == nil {
			return
		}
		groups = append(groups, current)
		current = Group{}
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		val := strings.TrimSpace(line[colon+1:])
		switch key {
		case "user-agent", "useragent":
			if len(current.Agents) > 0 && (len(current.Allow) > 0 || len(current.Disallow) > 0 || current.CrawlDelay != nil) {
				flush()
			}
			current.Agents = append(current.Agents, strings.ToLower(val))
		case "allow":
			current.Allow = append(current.Allow, val)
		case "disallow":
			current.Disallow = append(current.Disallow, val)
		case "crawl-delay", "crawldelay":
			if s := strings.TrimSpace(val); s != "" {
				if d, err := time.ParseDuration(s + "s"); err == nil {
					dd := d
					current.CrawlDelay = &dd
				}
			}
		}
	}
	flush()
	return Rules{Groups: groups}
}

// IsAllowed evaluates whether the provided path (which may include a query
// string) may be fetched for the given user agent.
//
// Decision policy:
//   - Select the most specific matching User-agent group (longest agent
//     token match), preferring exact names over wildcard "*".
//   - Within the selected group, the matching directive with the highest
//     specificity wins, where specificity is the length of the pattern with
//     '*' removed and a trailing '$' ignored. Ties favor Allow.
//   - If no directive matches, default allow.
func (r Rules) IsAllowed(userAgent string, pathWithOptionalQuery string) bool {
	grpIdx := r.selectGroupIndex(userAgent)
	if grpIdx < 0 || grpIdx >= len(r.Groups) {
		return true
	}
	grp := r.Groups[grpIdx]

	bestScore := -1
	bestAllow := true

	evaluate := func(patterns []string, isAllow bool) {
		for _, p := range patterns {
			if p == "" { // empty pattern matches nothing (no restriction)
				continue
			}
			if patternMatches(p, pathWithOptionalQuery) {
				score := patternSpecificity(p)
				if score > bestScore || (score == bestScore && isAllow && !bestAllow) {
					bestScore = score
					bestAllow = isAllow
				}
			}
		}
	}

	evaluate(grp.Disallow, false)
	evaluate(grp.Allow, true)

	if bestScore == -1 {
		return true
	}
	return bestAllow
}

// CrawlDelayFor returns the crawl delay configured for the most specific
// matching user agent group, or nil when unset.
func (r Rules) CrawlDelayFor(userAgent string) *time.Duration {
	grpIdx := r.selectGroupIndex(userAgent)
	if grpIdx < 0 || grpIdx >= len(r.Groups) {
		return nil
	}
	return r.Groups[grpIdx].CrawlDelay
}

// selectGroupIndex chooses the best-matching group for the given user
// agent. Longest non-wildcard agent token substring match wins; wildcard
// '*' loses to any non-wildcard match. Ties choose the first group.
func (r Rules) selectGroupIndex(userAgent string) int {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	bestIdx := -1
	bestScore := -1
	for i, g := range r.Groups {
		for _, a := range g.Agents {
			token := strings.ToLower(strings.TrimSpace(a))
			if token == "" {
				continue
			}
			var score int
			if token == "*" {
				score = 0
			} else if strings.Contains(ua, token) {
				score = len(token)
			} else {
				continue
			}
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
	}
	return bestIdx
}

// patternMatches reports whether the robots pattern matches the path.
// Supported features: '*' matching any sequence and '$' anchoring the end.
// Matching is anchored at the beginning of the path.
func patternMatches(pattern, path string) bool {
	anchorEnd := strings.HasSuffix(pattern, "$")
	p := pattern
	if anchorEnd {
		p = strings.TrimSuffix(p, "$")
	}
	var b strings.Builder
	b.WriteString("^")
	for _, rn := range p {
		if rn == '*' {
			b.WriteString(".*")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(rn)))
	}
	if anchorEnd {
		b.WriteString("$")
	}
	re := regexp.MustCompile(b.String())
	return re.MatchString(path)
}

// patternSpecificity computes a comparable specificity score for a pattern.
// '*' is ignored in the score; a trailing '$' is ignored as well.
func patternSpecificity(pattern string) int {
	p := strings.TrimSuffix(pattern, "$")
	p = strings.ReplaceAll(p, "*", "")
	return len(p)
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func isLocalOrPrivateHost(host string) bool {
	h := strings.ToLower(strings.TrimSpace(host))
	if h == "localhost" || h == "localhost.localdomain" || h == "::1" || h == "[::1]" {
		return true
	}
	if ip := net.ParseIP(h); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			return true
		}
	}
	return false
}
