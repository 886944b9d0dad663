package extraction

import "time"

// RawDocument is one upstream OCR/AI extraction result as delivered by
// the document pipeline. Only the identity and routing metadata have a
// stable shape; the extraction payload itself is free-form.
type RawDocument struct {
	ID                 string         `json:"_id"`
	Name               string         `json:"name"`
	FilePath           string         `json:"filePath"`
	FileType           string         `json:"fileType"`
	OrganizationID     string         `json:"organizationId"`
	DepartmentID       string         `json:"departmentId"`
	UploadedByID       string         `json:"uploadedById"`
	IsValidatedByHuman bool           `json:"isValidatedByHuman"`
	Metadata           DocumentMeta   `json:"metadata"`
	ExtractedData      *ExtractedData `json:"extractedData"`
}

// DocumentMeta duplicates several routing fields; the top-level values
// win, the metadata values are the fallback.
type DocumentMeta struct {
	OriginalFileName string `json:"originalFileName"`
	OrganizationID   string `json:"organizationId"`
	DepartmentID     string `json:"departmentId"`
	UploadedBy       string `json:"uploadedBy"`
	TemplateID       string `json:"templateId"`
	TemplateName     string `json:"templateName"`
}

// ExtractedData carries the LLM extraction tree.
type ExtractedData struct {
	LLMData *Node `json:"llmData"`
}

// Payload returns the extraction tree, or nil when the document carries
// no extraction result at all.
func (d *RawDocument) Payload() *Node {
	if d.ExtractedData == nil {
		return nil
	}
	return d.ExtractedData.LLMData
}

// FileName resolves the display name of the source file.
func (d *RawDocument) FileName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Metadata.OriginalFileName
}

// ResolvedOrganizationID returns the organization the document belongs to.
func (d *RawDocument) ResolvedOrganizationID() string {
	if d.OrganizationID != "" {
		return d.OrganizationID
	}
	return d.Metadata.OrganizationID
}

// ResolvedDepartmentID returns the department the document belongs to.
func (d *RawDocument) ResolvedDepartmentID() string {
	if d.DepartmentID != "" {
		return d.DepartmentID
	}
	return d.Metadata.DepartmentID
}

// ResolvedUploaderID returns who uploaded the document.
func (d *RawDocument) ResolvedUploaderID() string {
	if d.UploadedByID != "" {
		return d.UploadedByID
	}
	return d.Metadata.UploadedBy
}

// FirstText resolves an ordered fallback chain of paths against the
// payload; the first path with a present scalar wins.
func FirstText(n *Node, paths ...string) (string, bool) {
	for _, path := range paths {
		if s, ok := n.At(path).Text(); ok {
			return s, true
		}
	}
	return "", false
}

// FirstAmount resolves an ordered fallback chain of monetary paths.
func FirstAmount(n *Node, paths ...string) (float64, bool) {
	for _, path := range paths {
		if f, ok := AmountOf(n.At(path)); ok {
			return f, true
		}
	}
	return 0, false
}

// FirstDate resolves an ordered fallback chain of date paths.
func FirstDate(n *Node, paths ...string) (time.Time, bool) {
	for _, path := range paths {
		if d, ok := DateOf(n.At(path)); ok {
			return d, true
		}
	}
	return time.Time{}, false
}
