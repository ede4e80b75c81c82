// File: internal/security/security.go

// Package security decides whether a principal may reach a path. Rules are
// evaluated in order and the first whose pattern matches wins.
package security

import (
	"net/http"
	"path"
	"strings"

	"house-admin/internal/model"
	"house-admin/internal/service"
)

// Decision is the outcome of checking a request against the rules.
type Decision int

const (
	Allow Decision = iota
	// Login means the rule needs a principal and there is none.
	Login
	// Forbidden means the principal lacks what the rule asks for.
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Login:
		return "login"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Predicate reports whether a principal satisfies a rule. A nil principal
// is anonymous.
type Predicate func(p *service.CustomClaims) bool

// Rule guards every path matching one of Patterns.
type Rule struct {
	Patterns []string
	Allow    Predicate
}

func PermitAll(*service.CustomClaims) bool { return true }

func Authenticated(p *service.CustomClaims) bool { return p != nil }

func HasRole(role string) Predicate {
	return func(p *service.CustomClaims) bool {
		return p != nil && p.HasRole(role)
	}
}

// DefaultRules is the access policy of the application.
func DefaultRules() []Rule {
	return []Rule{
		{
			Patterns: []string{
				"/css/**", "/images/**", "/js/**", "/storage/**",
				"/", "/signup/**", "/houses", "/houses/{id}",
				"/stripe/webhook", "/login", "/logout",
			},
			Allow: PermitAll,
		},
		{Patterns: []string{"/admin/**"}, Allow: HasRole(model.RoleAdmin)},
		{Patterns: []string{"/**"}, Allow: Authenticated},
	}
}

// DecideRequest 以請求的解碼路徑與原始路徑（含 %2F 等跳脫字元時，
// 路由器比對的是原始路徑）分別判斷，取較嚴格的結果。
// 如此 "/admin/houses/..%2F..%2Fhouses" 之類的路徑無法借公開規則進入管理頁。
func DecideRequest(rules []Rule, r *http.Request, p *service.CustomClaims) Decision {
	d := Decide(rules, r.URL.Path, p)
	if raw := r.URL.RawPath; raw != "" && raw != r.URL.Path {
		if rd := Decide(rules, raw, p); rd > d {
			d = rd
		}
	}
	return d
}

// Decide applies the first rule matching urlPath. A path no rule matches is
// allowed.
func Decide(rules []Rule, urlPath string, p *service.CustomClaims) Decision {
	urlPath = normalize(urlPath)
	for _, r := range rules {
		if !r.matches(urlPath) {
			continue
		}
		if r.Allow(p) {
			return Allow
		}
		if p == nil {
			return Login
		}
		return Forbidden
	}
	return Allow
}

func (r Rule) matches(urlPath string) bool {
	for _, pattern := range r.Patterns {
		if Match(pattern, urlPath) {
			return true
		}
	}
	return false
}

// Match reports whether urlPath matches pattern. A "**" segment matches any
// number of trailing segments, including none. "*" and "{name}" match
// exactly one segment.
func Match(pattern, urlPath string) bool {
	ps := segments(pattern)
	us := segments(normalize(urlPath))
	for i, seg := range ps {
		if seg == "**" {
			return true
		}
		if i >= len(us) {
			return false
		}
		if seg == "*" || isVariable(seg) {
			continue
		}
		if seg != us[i] {
			return false
		}
	}
	return len(ps) == len(us)
}

func normalize(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

func segments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func isVariable(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}
