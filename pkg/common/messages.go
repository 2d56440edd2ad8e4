package common

import (
	"fmt"
	"log"
)

// Global variable to control debug output
var VerboseMode bool = false

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// Error messages
const (
	ErrFailedToOpenImage          = "failed to open disc image"
	ErrFailedToReadHeader         = "failed to read disc header"
	ErrFailedToReadFST            = "failed to read filesystem table"
	ErrFailedToParseFST           = "failed to parse filesystem table"
	ErrFailedToBuildIndex         = "failed to build entry index"
	ErrFailedToResolveTarget      = "failed to resolve replacement target"
	ErrFailedToApplyReplacement   = "failed to apply replacement"
	ErrFailedToRewriteFST         = "failed to rewrite filesystem table"
	ErrFailedToAssembleImage      = "failed to assemble disc image"
	ErrFailedToCreateOutputFile   = "failed to create output file"
	ErrFailedToFinalizeOutputFile = "failed to finalize output file"
	ErrFailedToReadYAMLFile       = "failed to read YAML file"
	ErrFailedToParseYAML          = "failed to parse YAML"
	ErrFailedToWritePadding       = "failed to write padding"
)

// Info messages
const (
	InfoDiscOpened          = "Opened disc image %s (game %s)"
	InfoFSTLocated          = "FST at 0x%X (%d bytes, %d entries)"
	InfoIndexBuilt          = "Indexed %d files"
	InfoReplacementApplied  = "Replaced %s (%s): size %d -> %d, shift %+d"
	InfoFSTRebuilt          = "Filesystem table rebuilt"
	InfoImageWritten        = "Disc image written to %s (%d bytes, %s)"
	InfoTableWritten        = "Filesystem table written to %s (%d bytes, %s)"
	InfoNoReplacements      = "No replacements requested, output will match the source image"
	InfoCatalogLoaded       = "Loaded catalog with %d assets"
	InfoCatalogGenerated    = "Generated catalog with %d groups from %d files"
	InfoCatalogDefaultInUse = "Using built-in asset catalog"
)

// Debug messages
const (
	DebugEntryRewritten   = "fst entry 0x%X: 0x%X -> 0x%X [%s]"
	DebugRecordIndexed    = "indexed %s at 0x%X (%d bytes)"
	DebugRecordShifted    = "shifted %s: 0x%X -> 0x%X"
	DebugDuplicateOffset  = "empty entry %s shares offset 0x%X with %s"
	DebugPayloadWritten   = "wrote %s at 0x%X (%d bytes)"
	DebugPaddingWritten   = "wrote %d bytes of trailing padding"
	DebugRequestResolved  = "request %s resolved to %s"
	DebugPayloadLoaded    = "loaded replacement %s (%d bytes)"
	DebugUnknownCharacter = "no character prefix for %s, skipping"
)

// Warning messages
const (
	WarnImageLargerThanContent = "Source image has %d bytes past the last file that will not be copied"
	WarnEmptyPayload           = "Replacement payload for %s is empty"
	WarnDATSizeMismatch        = "DAT header of %s declares %d bytes, the FST says %d"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[INFO] "+message, args...)
	} else {
		log.Printf("[INFO] %s", message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[WARN] "+message, args...)
	} else {
		log.Printf("[WARN] %s", message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		log.Printf("[ERROR] "+message, args...)
	} else {
		log.Printf("[ERROR] %s", message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	if len(args) > 0 {
		log.Printf("[DEBUG] "+message, args...)
	} else {
		log.Printf("[DEBUG] %s", message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString creates a formatted error with string details
func FormatErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}
