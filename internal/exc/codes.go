// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package exc

const (
	CodeUnknownFatal                  = "P0000"
	CodeFileNotFound                  = "P0001"
	CodeUnsuportedFileSystemOperation = "P0002"
	CodePermissionDenied              = "P0003"
	CodeUnsupportedFileFormat         = "P0004"
	CodeUnexpectedToken               = "P0005"
	CodeInvalidOperator               = "P0006"
	CodeInvalidNumber                 = "P0007"
	CodeInvalidConfig                 = "P0008"
	CodeInternal                      = "P0009"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
