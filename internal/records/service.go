package records

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medvault-backend/internal/ai"
	"medvault-backend/internal/extract"
	"medvault-backend/internal/shared/metrics"
	"medvault-backend/internal/shared/storage/object"
	"medvault-backend/internal/shared/telemetry"
	"medvault-backend/internal/shared/util"
)

// signedURLTTL is how long a minted download URL stays valid.
const signedURLTTL = time.Hour

// Service runs the upload-and-enrichment pipeline and the list/delete
// operations around it.
type Service struct {
	Store     object.ObjectStore
	Repo      Repo
	Extractor *extract.Extractor
	AI        *ai.Service
}

// UploadInput carries everything the upload pipeline needs. All fields come
// from the caller and are trusted as-is apart from filename sanitization.
type UploadInput struct {
	UserID      string
	Category    string
	FileName    string
	ContentType string
	SizeBytes   *int64
	Data        []byte
}

// Upload stores the blob, enriches it with extraction and model output, and
// persists the resulting record. Extraction and model failures ride inside
// the record as text; only blob-write and persistence failures abort.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Record, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.Category) == "" {
		return Record{}, fmt.Errorf("%w: userId and category are required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.FileName) == "" {
		return Record{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}

	sanitized, err := util.SanitizeFileName(in.FileName)
	if err != nil {
		return Record{}, fmt.Errorf("%w: invalid file name", ErrInvalidInput)
	}

	metrics.IncUploadStarted()
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))

	// Key shape is {userId}/{random-hex}_{filename}; the random component
	// makes collisions negligible, so there is no existence check.
	storagePath := fmt.Sprintf("%s/%s_%s", in.UserID, randomHex(), sanitized)

	if _, err := s.Store.Put(ctx, storagePath, contentType, bytes.NewReader(in.Data)); err != nil {
		metrics.IncUploadFailed()
		return Record{}, fmt.Errorf("store blob: %w", err)
	}
	telemetry.Info("upload.blob.stored", map[string]any{
		"user_id": in.UserID,
		"path":    storagePath,
		"type":    contentType,
	})

	ocrText := s.Extractor.Text(ctx, in.Data, contentType, in.FileName)

	isMedical := s.AI.IsMedical(ctx, ocrText)
	telemetry.Info("upload.classified", map[string]any{
		"user_id":    in.UserID,
		"path":       storagePath,
		"is_medical": isMedical,
	})

	analysisResult := s.AI.Analyze(ctx, ocrText)
	summaryResult := s.AI.Summarize(ctx, ocrText)

	now := time.Now().UTC()
	rec := Record{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		Name:           in.FileName,
		Type:           contentType,
		SizeBytes:      in.SizeBytes,
		Category:       in.Category,
		OCRText:        ocrText,
		IsMedical:      isMedical,
		StoragePath:    storagePath,
		AnalysisResult: analysisResult,
		SummaryResult:  summaryResult,
		UploadDate:     now,
		UploadedAt:     now,
	}

	if err := s.Repo.Create(ctx, rec); err != nil {
		metrics.IncUploadFailed()
		// Best-effort cleanup so a failed persist does not strand the blob.
		if delErr := s.Store.Delete(ctx, storagePath); delErr != nil {
			telemetry.Warn("upload.orphan_blob", map[string]any{
				"path": storagePath,
				"err":  delErr.Error(),
			})
		}
		return Record{}, fmt.Errorf("persist record: %w", err)
	}

	metrics.IncUploadCompleted()
	telemetry.Info("upload.complete", map[string]any{
		"user_id":   in.UserID,
		"record_id": rec.ID,
	})
	return rec, nil
}

// List returns the user's records, each with a freshly signed download URL.
func (s *Service) List(ctx context.Context, userID string) ([]ListedRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	recs, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	out := make([]ListedRecord, 0, len(recs))
	for _, rec := range recs {
		listed := ListedRecord{Record: rec}
		if rec.StoragePath != "" {
			url, err := s.Store.SignedURL(ctx, rec.StoragePath, signedURLTTL)
			if err != nil {
				return nil, fmt.Errorf("sign url for record %s: %w", rec.ID, err)
			}
			listed.DownloadURL = url
		}
		out = append(out, listed)
	}
	return out, nil
}

// Delete removes a record and its blob after an ownership check. Blob
// deletion is best-effort; metadata removal proceeds regardless.
func (s *Service) Delete(ctx context.Context, userID, recordID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	rec, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.UserID != userID {
		return ErrForbidden
	}

	if rec.StoragePath != "" {
		if err := s.Store.Delete(ctx, rec.StoragePath); err != nil {
			telemetry.Warn("delete.blob.failed", map[string]any{
				"record_id": recordID,
				"path":      rec.StoragePath,
				"err":       err.Error(),
			})
		}
	}

	return s.Repo.Delete(ctx, recordID)
}

func randomHex() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
