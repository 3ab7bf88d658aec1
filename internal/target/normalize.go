// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package target

import (
	"net/url"
	"path/filepath"
)

// Normalize converts a compile target into the form used to open it.
//
// File paths and file URIs become absolute, cleaned paths rooted at "/" so
// that they resolve against every configured search root. Relative paths
// are rooted rather than resolved against the working directory. All other
// URIs are returned unchanged for some other FileSystem to handle.
func Normalize(target string) string {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "" && u.Scheme != "file") {
		return target
	}
	if u.Scheme == "file" {
		target = u.Path
	}
	return filepath.Join("/", target)
}
