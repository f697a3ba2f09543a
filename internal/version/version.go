// ABOUTME: Version constants for the stemweld tool
// ABOUTME: Identifies the product in logs and generated documents
package version

const (
	// Version is the current release version.
	Version = "0.1.0"

	// Product is the tool name written into generated session documents.
	Product = "stemweld"
)
