package records

import "time"

// Record is the metadata persisted for one uploaded file. OCRText,
// AnalysisResult, and SummaryResult may carry failure descriptions instead of
// real content; see the extract and ai packages.
type Record struct {
	ID             string
	UserID         string
	Name           string
	Type           string
	SizeBytes      *int64
	Category       string
	OCRText        string
	IsMedical      bool
	StoragePath    string
	AnalysisResult string
	SummaryResult  string
	UploadDate     time.Time
	UploadedAt     time.Time
}

// ListedRecord is a Record enriched with a freshly signed download URL. The
// URL is minted per request and never persisted.
type ListedRecord struct {
	Record
	DownloadURL string
}
