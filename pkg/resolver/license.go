package resolver

import (
	"strings"

	"streamarchive/pkg/archive"
)

// PermissiveLicense reports whether the candidate declares public-domain
// or Creative Commons terms, from either the search document or the
// fetched item metadata. This is a pure gate: a false result means
// exclusion, not an error.
func PermissiveLicense(doc archive.Doc, item *archive.Item) bool {
	rights := strings.ToLower(doc.Rights.String())
	licenseURL := strings.ToLower(doc.LicenseURL.String())
	if item != nil {
		if r := item.Metadata.Rights.String(); r != "" {
			rights = strings.ToLower(r)
		}
		if l := item.Metadata.LicenseURL.String(); l != "" {
			licenseURL = strings.ToLower(l)
		}
	}

	if strings.Contains(rights, "public domain") {
		return true
	}
	// "pdm" covers CC0 / Public Domain Mark license URLs
	return strings.Contains(licenseURL, "creativecommons") ||
		strings.Contains(licenseURL, "/publicdomain") ||
		strings.Contains(licenseURL, "pdm")
}
