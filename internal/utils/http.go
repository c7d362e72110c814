package utils

import "strings"

// ConstructURL builds a URL string from scheme, host and path
func ConstructURL(scheme, host, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme + "://" + host + path
}
