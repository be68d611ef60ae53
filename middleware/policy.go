package middleware

import (
	"log/slog"
	"net/http"
	"strings"
)

type Access int

const (
	Public Access = iota
	Protected
)

func (a Access) String() string {
	if a == Public {
		return "public"
	}
	return "protected"
}

// AnyMethod matches every HTTP verb.
const AnyMethod = "*"

// Rule grants Access to Method on Resource.
type Rule struct {
	Resource string
	Method   string
	Access   Access
}

// Policy is an ordered rule table; the first rule matching both resource and
// method decides. Resources with no rules are not guarded.
type Policy []Rule

// DefaultPolicy: the package catalogue is publicly readable, inquiries are
// publicly submittable, everything else on those two resources needs a token.
var DefaultPolicy = Policy{
	{Resource: "packages", Method: http.MethodGet, Access: Public},
	{Resource: "packages", Method: AnyMethod, Access: Protected},
	{Resource: "inquiries", Method: http.MethodPost, Access: Public},
	{Resource: "inquiries", Method: AnyMethod, Access: Protected},
}

// Decide returns the access level for a request and whether the policy
// covers the resource at all.
func (p Policy) Decide(resource, method string) (Access, bool) {
	covered := false
	for _, rule := range p {
		if rule.Resource != resource {
			continue
		}
		covered = true
		if rule.Method == AnyMethod || rule.Method == method {
			return rule.Access, true
		}
	}
	// Covered resource with no matching verb fails closed.
	return Protected, covered
}

// Resource classifies a path by its first segment after an optional /api
// prefix: "/api/packages/abc" is "packages".
func Resource(path string) string {
	path = strings.TrimPrefix(path, "/")
	if rest, ok := strings.CutPrefix(path, "api/"); ok {
		path = rest
	} else if path == "api" {
		return ""
	}
	segment, _, _ := strings.Cut(path, "/")
	return segment
}

// Authorize evaluates the policy once per request, before routing.
func Authorize(policy Policy, secret []byte, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resource := Resource(r.URL.Path)
			access, covered := policy.Decide(resource, r.Method)
			if !covered || access == Public {
				next.ServeHTTP(w, r)
				return
			}

			if err := verifyRequest(r, secret); err != nil {
				log.InfoContext(r.Context(), "request rejected",
					"resource", resource, "method", r.Method, "access", access, "reason", err)
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
