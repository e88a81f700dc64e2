// Package misc keeps program identification, values are set by the linker.
package misc

var (
	appName = "wfr"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name used in logs and temporary file names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns commit the program was built from.
func GetGitHash() string {
	return gitHash
}
