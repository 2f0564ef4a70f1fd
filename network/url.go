// Package network provides the URL resolution used when rewriting
// url() references in transpiled stylesheets against a base URL.
package network

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveURL resolves a reference URL against a base URL.
// If ref is already absolute, it is returned as-is.
// If ref is relative, it is resolved against base.
func ResolveURL(base, ref string) (string, error) {
	// Handle empty reference
	if ref == "" {
		return base, nil
	}

	// Data URLs are always absolute
	if IsDataURL(ref) {
		return ref, nil
	}

	// Fragment-only references keep the base location
	if strings.HasPrefix(ref, "#") {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid base URL: %w", err)
		}
		baseURL.Fragment = ref[1:]
		return baseURL.String(), nil
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid reference URL: %w", err)
	}

	if refURL.IsAbs() {
		return refURL.String(), nil
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	return baseURL.ResolveReference(refURL).String(), nil
}

// IsAbsoluteURL returns true if the URL is absolute (has a scheme).
func IsAbsoluteURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return u.IsAbs()
}

// IsDataURL returns true if the URL is a data URL.
func IsDataURL(urlStr string) bool {
	return strings.HasPrefix(strings.ToLower(urlStr), "data:")
}
