package core

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// breadcrumbSeparator splits breadcrumb paths such as "Root > Parent > Child".
const breadcrumbSeparator = ">"

// EntityRef is a named entity extracted upstream.
type EntityRef struct {
	Text  string `json:"text"`
	Label string `json:"label,omitempty"`
}

// UnmarshalJSON accepts either a bare string or an object.
func (e *EntityRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = EntityRef{Text: s}
		return nil
	}
	type plain EntityRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = EntityRef(p)
	return nil
}

// TopicRef is a topic extracted upstream.
type TopicRef struct {
	Text   string   `json:"text"`
	Weight *float64 `json:"weight,omitempty"`
}

// UnmarshalJSON accepts either a bare string or an object.
func (t *TopicRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TopicRef{Text: s}
		return nil
	}
	type plain TopicRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = TopicRef(p)
	return nil
}

// AttachmentInfo describes a document that is an attachment of another.
type AttachmentInfo struct {
	IsAttachment     bool   `json:"is_attachment"`
	ParentDocumentID string `json:"parent_document_id,omitempty"`
	Filename         string `json:"filename,omitempty"`
	MimeType         string `json:"mime_type,omitempty"`
}

// ConversionInfo describes a document converted from another file format.
type ConversionInfo struct {
	Converted        bool   `json:"converted"`
	OriginalFileType string `json:"original_file_type,omitempty"`
	Method           string `json:"method,omitempty"`
}

// Document is a single search result as handed to the engine.
// Every field except Text may be empty; scoring degrades instead of failing.
type Document struct {
	ID          string  `json:"id,omitempty"`
	Score       float64 `json:"score"`
	Text        string  `json:"text"`
	SourceType  string  `json:"source_type"`
	SourceTitle string  `json:"source_title"`
	ProjectID   string  `json:"project_id,omitempty"`

	Entities   []EntityRef `json:"entities,omitempty"`
	Topics     []TopicRef  `json:"topics,omitempty"`
	KeyPhrases []string    `json:"key_phrases,omitempty"`

	Depth          *int   `json:"depth,omitempty"`
	ParentID       string `json:"parent_id,omitempty"`
	BreadcrumbText string `json:"breadcrumb_text,omitempty"`

	HasCodeBlocks     *bool `json:"has_code_blocks,omitempty"`
	HasTables         *bool `json:"has_tables,omitempty"`
	WordCount         *int  `json:"word_count,omitempty"`
	EstimatedReadTime *int  `json:"estimated_read_time,omitempty"`

	Attachment *AttachmentInfo `json:"attachment,omitempty"`
	Conversion *ConversionInfo `json:"conversion,omitempty"`
}

// DocID returns the explicit id, or "source_type:source_title" when none is set.
func (d *Document) DocID() string {
	if d.ID != "" {
		return d.ID
	}
	return d.SourceType + ":" + d.SourceTitle
}

// IsRoot reports whether the document sits at the top of its hierarchy.
func (d *Document) IsRoot() bool {
	if d.ParentID != "" {
		return false
	}
	return d.Depth == nil || *d.Depth == 0
}

// IsAttachment reports whether the document is an attachment of another document.
func (d *Document) IsAttachment() bool {
	return d.Attachment != nil && d.Attachment.IsAttachment
}

// IsConverted reports whether the document text came from a file conversion.
func (d *Document) IsConverted() bool {
	return d.Conversion != nil && d.Conversion.Converted
}

// Breadcrumbs splits BreadcrumbText into trimmed, non-empty segments.
func (d *Document) Breadcrumbs() []string {
	if strings.TrimSpace(d.BreadcrumbText) == "" {
		return nil
	}
	parts := strings.Split(d.BreadcrumbText, breadcrumbSeparator)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// EntitySet maps lower-cased entity text to its first-seen original spelling.
func (d *Document) EntitySet() map[string]string {
	set := make(map[string]string, len(d.Entities))
	for _, e := range d.Entities {
		addNormalized(set, e.Text)
	}
	return set
}

// TopicSet maps lower-cased topic text to its first-seen original spelling.
func (d *Document) TopicSet() map[string]string {
	set := make(map[string]string, len(d.Topics))
	for _, t := range d.Topics {
		addNormalized(set, t.Text)
	}
	return set
}

// Window returns at most n runes of the document text. n <= 0 means no limit.
func (d *Document) Window(n int) string {
	if n <= 0 || utf8.RuneCountInString(d.Text) <= n {
		return d.Text
	}
	count := 0
	for i := range d.Text {
		if count == n {
			return d.Text[:i]
		}
		count++
	}
	return d.Text
}

func addNormalized(set map[string]string, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	key := strings.ToLower(trimmed)
	if _, ok := set[key]; !ok {
		set[key] = trimmed
	}
}
