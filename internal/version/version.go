// internal/version/version.go
package version

// Version is the kcorr release string.
const Version = "1.1.0"
