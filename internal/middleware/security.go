// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// Directive is one policy entry, such as a CSP directive and its sources.
type Directive struct {
	Name  string
	Value string
}

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS, since local servers speak plain HTTP.
	IsDevelopment bool

	// ContentSecurityPolicy is the CSP header value. Empty omits the header.
	ContentSecurityPolicy string

	// HSTSMaxAge is the max-age for Strict-Transport-Security in seconds.
	// Zero disables HSTS.
	HSTSMaxAge int

	// HSTSIncludeSubDomains includes subdomains in HSTS policy.
	HSTSIncludeSubDomains bool

	// FrameOptions is "DENY", "SAMEORIGIN", or empty to omit X-Frame-Options.
	FrameOptions string

	ReferrerPolicy    string
	PermissionsPolicy string
}

// DefaultSecurityHeadersConfig returns the blog's header set. Scripts, styles
// and fonts must come from the site itself; post cover images may be any
// https URL (any http URL too in development).
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	imgSrc := "'self' data: https:"
	if isDev {
		imgSrc = "'self' data: http: https:"
	}

	return SecurityHeadersConfig{
		IsDevelopment: isDev,
		ContentSecurityPolicy: JoinDirectives([]Directive{
			{"default-src", "'self'"},
			{"script-src", "'self'"},
			{"style-src", "'self'"},
			{"img-src", imgSrc},
			{"font-src", "'self' data:"},
			{"connect-src", "'self'"},
			{"object-src", "'none'"},
			{"base-uri", "'self'"},
			{"form-action", "'self'"},
			{"frame-ancestors", "'self'"},
		}, " ", "; "),
		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubDomains: !isDev,
		FrameOptions:          "SAMEORIGIN",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy: JoinDirectives([]Directive{
			{"browsing-topics", "()"},
			{"camera", "()"},
			{"geolocation", "()"},
			{"interest-cohort", "()"},
			{"microphone", "()"},
			{"payment", "()"},
			{"usb", "()"},
		}, "=", ", "),
	}
}

// JoinDirectives renders directives in order, each as name+assign+value,
// separated by sep.
func JoinDirectives(directives []Directive, assign, sep string) string {
	parts := make([]string, 0, len(directives))
	for _, d := range directives {
		parts = append(parts, d.Name+assign+d.Value)
	}
	return strings.Join(parts, sep)
}

// SecurityHeaders returns a middleware that adds security headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	hsts := ""
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
