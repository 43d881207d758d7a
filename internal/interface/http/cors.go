package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// corsPolicy resolves the Access-Control-Allow-Origin value for the portal frontend.
type corsPolicy struct {
	wildcard bool
	fallback string
	origins  map[string]string
}

func newCORSPolicy(allowed []string) corsPolicy {
	policy := corsPolicy{origins: make(map[string]string, len(allowed))}
	if len(allowed) == 0 {
		policy.wildcard = true
		return policy
	}
	policy.fallback = allowed[0]
	for _, origin := range allowed {
		if origin == "*" {
			policy.wildcard = true
		}
		policy.origins[strings.ToLower(origin)] = origin
	}
	return policy
}

// allowOrigin echoes a configured origin, otherwise the first configured one.
func (p corsPolicy) allowOrigin(requestOrigin string) string {
	if p.wildcard {
		return "*"
	}
	if origin, ok := p.origins[strings.ToLower(requestOrigin)]; ok && requestOrigin != "" {
		return origin
	}
	return p.fallback
}

func resolveOrigin(requestOrigin string, allowed []string) string {
	return newCORSPolicy(allowed).allowOrigin(requestOrigin)
}

func corsMiddleware(allowed []string) gin.HandlerFunc {
	policy := newCORSPolicy(allowed)
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Set("Access-Control-Allow-Origin", policy.allowOrigin(c.GetHeader("Origin")))
		if !policy.wildcard {
			headers.Add("Vary", "Origin")
		}
		headers.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		headers.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		headers.Set("Access-Control-Expose-Headers", requestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
