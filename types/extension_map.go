package types

import (
	"path/filepath"
	"strings"
)

// ExtensionLookup is a set of lower-cased file extensions, each including the leading dot
type ExtensionLookup map[string]struct{}

func NewExtensionLookup(extensions ...string) ExtensionLookup {
	lookup := make(ExtensionLookup)
	for _, ext := range extensions {
		lookup[strings.ToLower(ext)] = struct{}{}
	}
	return lookup
}

func (l ExtensionLookup) IsValid(path string) bool {
	// empty lookup means all extensions are valid
	if len(l) == 0 {
		return true
	}

	_, valid := l[strings.ToLower(filepath.Ext(path))]
	return valid
}
