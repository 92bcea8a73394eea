// Package errors provides structured error handling for go-game-index.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Precondition errors (missing chunk directory, lock held)
//   - 4XX: Malformed input
//   - 5XX: Internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates an invalid option or config file.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryPrecondition indicates the operator has to do something first.
	CategoryPrecondition Category = "PRECONDITION"
	// CategoryInput indicates a source or chunk file that is not a JSON array.
	CategoryInput Category = "INPUT"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigInvalid = "ERR_101_CONFIG_INVALID"
	ErrCodeConfigParse   = "ERR_102_CONFIG_PARSE"

	// IO errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeWriteFailed    = "ERR_203_WRITE_FAILED"
	ErrCodeReadFailed     = "ERR_204_READ_FAILED"

	// Precondition errors (300-399)
	ErrCodeChunksDirMissing = "ERR_301_CHUNKS_DIR_MISSING"
	ErrCodeLockTimeout      = "ERR_302_LOCK_TIMEOUT"

	// Malformed input (400-499)
	ErrCodeSourceMalformed = "ERR_401_SOURCE_MALFORMED"
	ErrCodeChunkMalformed  = "ERR_402_CHUNK_MALFORMED"

	// Internal errors (500-599)
	ErrCodeInternal = "ERR_501_INTERNAL"
)

// Process exit codes returned by the CLI.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfig        = 2
	ExitChunksMissing = 3
	ExitLocked        = 4
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_CONFIG_INVALID"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryPrecondition
	case '4':
		return CategoryInput
	default:
		return CategoryInternal
	}
}
