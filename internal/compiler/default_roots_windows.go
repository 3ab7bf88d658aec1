// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

//go:build windows

package compiler

import (
	"path/filepath"
)

func getDefaultRoots(lookup func(string) (string, bool)) []string {
	if paths, ok := lookup("PAWC_INCLUDE_PATH"); ok && paths != "" {
		return filepath.SplitList(paths)
	}
	userprofile, _ := lookup("USERPROFILE")
	systemdrive, _ := lookup("SystemDrive")
	return []string{
		filepath.Join(userprofile, "AppData", "Local", "pawc", "include"),
		filepath.Join(systemdrive, "ProgramData", "pawc", "include"),
	}
}
