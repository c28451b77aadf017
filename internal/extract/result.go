package extract

// Status classifies the outcome of a text extraction.
type Status string

const (
	StatusOK          Status = "ok"
	StatusEmpty       Status = "empty"
	StatusNoTextLayer Status = "no_text_layer"
	StatusCorrupt     Status = "corrupt"
	StatusUnsupported Status = "unsupported"
	// StatusCanceled means the caller's context ended before extraction
	// finished; the document itself may be fine.
	StatusCanceled Status = "canceled"
)

// Result is the outcome of extracting text from an uploaded document.
// Text is only meaningful when Status is StatusOK.
type Result struct {
	Status   Status
	Text     string
	Pages    int
	MimeType string
	Err      error
}

// Failed reports whether no usable text was extracted.
func (r Result) Failed() bool {
	return r.Status != StatusOK
}

// Canceled reports whether extraction stopped because the context ended.
func (r Result) Canceled() bool {
	return r.Status == StatusCanceled
}

// Reason returns a user-facing reason code for a failed extraction.
func (r Result) Reason() string {
	return string(r.Status)
}

// Message returns a human readable description of the status.
func (r Result) Message() string {
	switch r.Status {
	case StatusOK:
		return "text extracted"
	case StatusEmpty:
		return "the uploaded file is empty"
	case StatusNoTextLayer:
		return "could not extract text: the document has no embedded text layer (scanned image?)"
	case StatusCanceled:
		return "extraction was canceled before it finished"
	case StatusUnsupported:
		return "could not extract text: unsupported file type"
	default:
		return "could not extract text: the file is damaged or not a valid document"
	}
}
