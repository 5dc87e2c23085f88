// Package resolve turns arbitrary job-posting URLs into a best-effort
// identity: provider, tenant, external id, referral source and company name.
// It performs no I/O and never fails; unparseable input yields a zero Identity.
package resolve

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
)

type Identity struct {
	Provider          string
	ProviderTenant    string
	ExternalID        string
	FoundOn           string
	HiringCompanyName string
}

// FromURL deduces identity fields from a raw URL string.
// Callers should run NormalizeURL first if the input comes from users.
func FromURL(raw string) Identity {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return Identity{}
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := u.Path
	foundOn := foundOnFromQuery(u.Query())

	if id, ok := resolveATS(u, host, path, foundOn); ok {
		return id
	}
	if id, ok := resolveBoard(u, host, path, foundOn); ok {
		return id
	}

	// Unknown host: treat as a corporate careers site.
	seg := lastPathSegment(path)
	ext := seg
	if seg == "" || genericJobLabels[strings.ToLower(seg)] {
		ext = hashExternalID(u.Scheme + "://" + host + path)
	}
	if foundOn == "" {
		foundOn = "corporate-site"
	}
	return Identity{
		Provider:          providerFromHost(host),
		ExternalID:        ext,
		FoundOn:           foundOn,
		HiringCompanyName: companyFromHost(host),
	}
}

func resolveATS(u *url.URL, host, path, foundOn string) (Identity, bool) {
	name := ""
	for _, d := range atsDomains {
		if host == d.domain || strings.HasSuffix(host, "."+d.domain) {
			name = d.provider
			break
		}
	}
	if name == "" {
		return Identity{}, false
	}

	id := Identity{Provider: name, FoundOn: foundOn}
	if id.FoundOn == "" {
		id.FoundOn = "corporate-site"
	}
	fallback := func() string { return hashExternalID(u.Scheme + "://" + host + path) }

	switch name {
	case "greenhouse":
		// boards.greenhouse.io/<tenant>/jobs/<id> or greenhouse.io/boards/<tenant>/...
		company := firstAfter(path, "boards")
		if company == "" {
			if segs := pathSegments(path); len(segs) > 0 && !strings.EqualFold(segs[0], "jobs") && !strings.EqualFold(segs[0], "embed") {
				company = segs[0]
			}
		}
		if company == "" {
			company = companyFromHost(host)
		}
		id.ProviderTenant = company
		id.HiringCompanyName = company
		id.ExternalID = firstAfter(path, "jobs")
		if id.ExternalID == "" {
			id.ExternalID = lastPathSegment(path)
		}
		if id.ExternalID == "" {
			id.ExternalID = fallback()
		}
	case "lever":
		// jobs.lever.co/<tenant>/<id>[/apply]
		segs := pathSegments(path)
		if len(segs) > 0 {
			id.ProviderTenant = segs[0]
		} else {
			id.ProviderTenant = firstLabel(host)
		}
		id.HiringCompanyName = id.ProviderTenant
		if len(segs) > 1 {
			id.ExternalID = segs[1]
		} else {
			id.ExternalID = fallback()
		}
	case "join":
		// join.com/companies/<company>/<id>-<slug>
		company := firstAfter(path, "companies")
		if company == "" {
			company = companyFromHost(host)
		}
		id.ProviderTenant = company
		id.HiringCompanyName = company
		seg := lastPathSegment(path)
		switch {
		case seg != "" && seg[0] >= '0' && seg[0] <= '9':
			id.ExternalID, _, _ = strings.Cut(seg, "-")
		case seg != "":
			id.ExternalID = seg
		default:
			id.ExternalID = fallback()
		}
	default:
		// workday, recruitee and the rest: tenant is the left-most host label,
		// external id the last path segment.
		id.ProviderTenant = firstLabel(host)
		id.HiringCompanyName = id.ProviderTenant
		id.ExternalID = lastPathSegment(path)
		if id.ExternalID == "" {
			id.ExternalID = fallback()
		}
	}
	return id, true
}

func resolveBoard(u *url.URL, host, path, foundOn string) (Identity, bool) {
	name := ""
	for _, d := range boardDomains {
		if host == d.domain || strings.HasSuffix(host, "."+d.domain) {
			name = d.provider
			break
		}
	}
	if name == "" {
		return Identity{}, false
	}

	seg := lastPathSegment(path)
	ext := seg
	if name == "linkedin" {
		// linkedin.com/jobs/view/<digits>/
		ext = firstAfter(path, "view")
		if ext == "" {
			ext = seg
		}
		if !isDigits(ext) {
			ext = ""
		}
	}
	if ext == "" {
		ext = hashExternalID(u.Scheme + "://" + host + path)
	}
	if foundOn == "" {
		foundOn = name
	}
	// The board alone does not reveal who is hiring.
	return Identity{
		Provider:   name,
		ExternalID: ext,
		FoundOn:    foundOn,
	}, true
}

// NormalizeURL repairs the malformed URLs browsers and chat clients produce:
// fragments are dropped, a second '?' becomes '&', repeated '&' collapse.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	i := strings.IndexByte(raw, '?')
	if i < 0 {
		return raw
	}
	query := strings.ReplaceAll(raw[i+1:], "?", "&")
	for strings.Contains(query, "&&") {
		query = strings.ReplaceAll(query, "&&", "&")
	}
	query = strings.Trim(query, "&")
	if query == "" {
		return raw[:i]
	}
	return raw[:i] + "?" + query
}

func foundOnFromQuery(q url.Values) string {
	for _, k := range referralKeys {
		if v := q.Get(k); v != "" {
			if s := normalizeSourceName(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// normalizeSourceName maps referral values ("li", "https://www.linkedin.com/...")
// onto canonical board names.
func normalizeSourceName(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if u, err := url.Parse(s); err == nil && u.Hostname() != "" {
			s = u.Hostname()
		}
	}
	s = strings.ReplaceAll(s, "www.", "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if alias, ok := sourceAliases[s]; ok {
		return alias
	}
	return s
}

// companyFromHost picks the host label just left of the public suffix,
// walking further left past generic jobs/careers labels.
// careers.microsoft.com -> microsoft; jobs.hygraph.com -> hygraph.
func companyFromHost(host string) string {
	parts := strings.Split(strings.ToLower(host), ".")
	if len(parts) < 2 {
		return parts[0]
	}
	start := len(parts) - 1 - publicSuffixLen(parts)
	if start < 0 {
		start = 0
	}
	for i := start; i >= 0; i-- {
		if parts[i] != "" && !genericJobLabels[parts[i]] {
			return parts[i]
		}
	}
	return parts[start]
}

// providerFromHost picks the left-most non-generic label before the public
// suffix: bosch.newats.ai -> bosch, jobs.siemens.com -> siemens.
func providerFromHost(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	parts := strings.Split(host, ".")
	if len(parts) == 0 || parts[0] == "" {
		return "corporate-site"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	cutoff := len(parts) - publicSuffixLen(parts)
	if cutoff <= 0 {
		return parts[0]
	}
	pre := parts[:cutoff]
	candidate := pre[0]
	if genericJobLabels[candidate] && len(pre) > 1 {
		candidate = pre[1]
	}
	if candidate == "" {
		return parts[0]
	}
	return candidate
}

func publicSuffixLen(parts []string) int {
	if len(parts) >= 3 && multiLevelTLDs[strings.Join(parts[len(parts)-2:], ".")] {
		return 2
	}
	return 1
}

func firstLabel(host string) string {
	label, _, _ := strings.Cut(host, ".")
	return label
}

func lastPathSegment(path string) string {
	parts := pathSegments(path)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func firstAfter(path, token string) string {
	parts := pathSegments(path)
	for i, p := range parts {
		if strings.EqualFold(p, token) && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func pathSegments(path string) []string {
	var out []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// hashExternalID is the stable fallback id for URLs without a usable path
// segment: first 16 hex chars of sha1.
func hashExternalID(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
