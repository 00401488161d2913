package mimeparse

// Resource is one section of an archive: a header and its decoded body.
type Resource struct {
	Header *Header
	Body   []byte
}

// Archive is a parsed document. For a multipart document the main resource
// has the document header and an empty body, and the parts are in
// SubResources in the order they appear. A single part document has no
// sub resources.
type Archive struct {
	MainResource Resource
	SubResources []Resource
}

// IsMultipart returns whether the archive was a multipart document.
func (a *Archive) IsMultipart() bool {
	return a.MainResource.Header.IsMultipart()
}

// Resources returns the main resource followed by the sub resources.
func (a *Archive) Resources() []Resource {
	l := make([]Resource, 0, 1+len(a.SubResources))
	l = append(l, a.MainResource)
	return append(l, a.SubResources...)
}

// Lookup returns the first resource with Content-Location location. MHTML
// pages refer to their sub resources by location.
func (a *Archive) Lookup(location string) (Resource, bool) {
	for _, r := range a.Resources() {
		if r.Header.ContentLocation != nil && *r.Header.ContentLocation == location {
			return r, true
		}
	}
	return Resource{}, false
}
