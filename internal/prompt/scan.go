package prompt

import (
	"os"
	"strings"
)

const extensionSeparator = "."

// ScanRequest describes which file names and extensions a detector looks for.
// Only the top level of the directory is inspected.
type ScanRequest struct {
	entries    []os.FileInfo
	files      []string
	extensions []string
}

// SetFiles sets the marker file names.
func (request *ScanRequest) SetFiles(names ...string) *ScanRequest {
	request.files = append([]string{}, names...)
	return request
}

// SetExtensions sets the recognized extensions, given without the leading dot.
func (request *ScanRequest) SetExtensions(extensions ...string) *ScanRequest {
	request.extensions = make([]string, 0, len(extensions))
	for _, extension := range extensions {
		request.extensions = append(request.extensions, strings.TrimPrefix(extension, extensionSeparator))
	}
	return request
}

// IsMatch reports whether any non-directory entry matches a marker name or extension.
func (request *ScanRequest) IsMatch() bool {
	for _, entry := range request.entries {
		if entry == nil || entry.IsDir() {
			continue
		}
		name := entry.Name()
		if containsString(request.files, name) {
			return true
		}
		extension := fileExtension(name)
		if extension != "" && containsString(request.extensions, extension) {
			return true
		}
	}
	return false
}

// fileExtension returns the text after the last dot.
// A dot file with no other dot, such as ".h", has no extension.
func fileExtension(name string) string {
	separatorIndex := strings.LastIndex(name, extensionSeparator)
	if separatorIndex <= 0 {
		return ""
	}
	return name[separatorIndex+1:]
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
