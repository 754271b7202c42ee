package records

import "time"

// RecordResponse is the wire shape of a stored record. DownloadURL is only
// populated on list responses, where URLs are minted per call.
type RecordResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	SizeBytes      *int64 `json:"size"`
	Category       string `json:"category"`
	OCRText        string `json:"ocrText"`
	IsMedical      bool   `json:"isMedical"`
	StoragePath    string `json:"storagePath"`
	AnalysisResult string `json:"analysisResult"`
	SummaryResult  string `json:"summaryResult"`
	UploadDate     string `json:"uploadDate"`
	UploadedAt     string `json:"uploadedAt"`

	DownloadURL string `json:"downloadUrl,omitempty"`
}

func toResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:             rec.ID,
		UserID:         rec.UserID,
		Name:           rec.Name,
		Type:           rec.Type,
		SizeBytes:      rec.SizeBytes,
		Category:       rec.Category,
		OCRText:        rec.OCRText,
		IsMedical:      rec.IsMedical,
		StoragePath:    rec.StoragePath,
		AnalysisResult: rec.AnalysisResult,
		SummaryResult:  rec.SummaryResult,
		UploadDate:     rec.UploadDate.UTC().Format(time.RFC3339),
		UploadedAt:     rec.UploadedAt.UTC().Format(time.RFC3339),
	}
}

func toListedResponse(rec ListedRecord) RecordResponse {
	resp := toResponse(rec.Record)
	resp.DownloadURL = rec.DownloadURL
	return resp
}
