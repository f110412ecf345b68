package scan

import (
	"MeatSafe-Backend/domain"
	"MeatSafe-Backend/internal/utils/storage"
	"MeatSafe-Backend/pkg/freshness"
	"MeatSafe-Backend/pkg/oracle"
	"MeatSafe-Backend/pkg/record"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type (
	// ScanService orchestrates a single scan attempt: classify the photo,
	// persist the result as a record, and optionally refine the verdict with
	// the user's sensory readings, overwriting the same record in place.
	ScanService interface {
		Start(ctx context.Context, req domain.StartScanRequest, userID string, pro bool) (domain.StartScanResponse, error)
		Refine(ctx context.Context, req domain.RefineScanRequest, userID string, pro bool) (domain.RefineScanResponse, error)
		Reset(ctx context.Context, req domain.ResetScanRequest, userID string) error
	}

	scanService struct {
		verdictOracle oracle.VerdictOracle
		recordService record.RecordService
		s3            storage.AwsS3
		registry      *sessionRegistry
	}
)

func NewScanService(verdictOracle oracle.VerdictOracle, recordService record.RecordService, s3 storage.AwsS3) ScanService {
	return &scanService{
		verdictOracle: verdictOracle,
		recordService: recordService,
		s3:            s3,
		registry:      newSessionRegistry(),
	}
}

func (s *scanService) Start(ctx context.Context, req domain.StartScanRequest, userID string, pro bool) (domain.StartScanResponse, error) {
	imageBytes, mimeType, err := readImage(req.Image)
	if err != nil {
		return domain.StartScanResponse{}, err
	}

	sessionID := s.registry.create(userID)

	verdict, err := s.verdictOracle.Classify(ctx, imageBytes, mimeType, pro)
	if err != nil {
		s.registry.fail(sessionID)
		return domain.StartScanResponse{}, fmt.Errorf("%w: %v", domain.ErrClassificationFailed, err)
	}

	if !s.registry.completeClassification(sessionID, verdict) {
		// The user abandoned the scan while the oracle was thinking.
		return domain.StartScanResponse{}, domain.ErrStaleScanResult
	}

	resp := domain.StartScanResponse{
		SessionID: sessionID.String(),
		Verdict:   verdict,
		Tracked:   s.recordService.IsTracked(verdict.MeatType),
	}

	// The photo is uploaded even when the verdict is untracked, so a later
	// refinement that lands on a trackable type still has it for the record.
	imageURL := s.uploadImage(sessionID, req.Image)
	s.registry.attachImage(sessionID, imageURL)

	if !resp.Tracked {
		return resp, nil
	}

	created, err := s.recordService.Create(ctx, userID, verdict, imageURL)
	if err != nil {
		return domain.StartScanResponse{}, err
	}
	s.registry.attachRecord(sessionID, created.ID)
	resp.Record = &created

	return resp, nil
}

func (s *scanService) Refine(ctx context.Context, req domain.RefineScanRequest, userID string, pro bool) (domain.RefineScanResponse, error) {
	if err := req.Sensory.Validate(); err != nil {
		return domain.RefineScanResponse{}, err
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return domain.RefineScanResponse{}, domain.ErrParseUUID
	}

	view, err := s.registry.beginRefine(sessionID, userID)
	if err != nil {
		return domain.RefineScanResponse{}, err
	}

	refined, err := s.verdictOracle.Refine(ctx, view.verdict, req.Sensory, pro)
	if err != nil {
		// The prior verdict and the record stay exactly as they were; the
		// caller may retry.
		s.registry.abortRefine(sessionID)
		return domain.RefineScanResponse{}, fmt.Errorf("%w: %v", domain.ErrRefinementFailed, err)
	}

	// The oracle is required to honor the sensory override contract, but the
	// engine validates and corrects rather than trusting it blindly.
	refined = freshness.ApplyOverridePolicy(view.verdict, req.Sensory, refined)

	if !s.registry.stillRefining(sessionID) {
		// The session was reset while the oracle was thinking; the result is
		// dropped and the record stays untouched.
		return domain.RefineScanResponse{}, domain.ErrStaleScanResult
	}

	resp := domain.RefineScanResponse{
		SessionID: sessionID.String(),
		Verdict:   refined,
		Tracked:   s.recordService.IsTracked(refined.MeatType),
	}

	recordID := view.recordID
	switch {
	case view.recordID != "":
		// Overwrite in place: refinement never duplicates the record.
		updated, err := s.recordService.ApplyRefinement(ctx, view.recordID, userID, refined)
		if err != nil {
			s.registry.abortRefine(sessionID)
			return domain.RefineScanResponse{}, err
		}
		resp.Record = &updated
	case resp.Tracked:
		// The initial scan was untracked (unknown or excluded species) but the
		// refinement settled on a trackable type, so a record appears now,
		// carrying the photo uploaded at scan time.
		created, err := s.recordService.Create(ctx, userID, refined, view.imageURL)
		if err != nil {
			s.registry.abortRefine(sessionID)
			return domain.RefineScanResponse{}, err
		}
		recordID = created.ID
		resp.Record = &created
	}

	if !s.registry.completeRefine(sessionID, refined, recordID) {
		return domain.RefineScanResponse{}, domain.ErrStaleScanResult
	}

	return resp, nil
}

func (s *scanService) Reset(_ context.Context, req domain.ResetScanRequest, userID string) error {
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.registry.reset(sessionID, userID)
}

func (s *scanService) uploadImage(sessionID uuid.UUID, image *multipart.FileHeader) string {
	fileName := fmt.Sprintf("meat-scan-%s", sessionID.String())
	objectKey, err := s.s3.UploadFile(fileName, image, "meat-scans", storage.AllowImage...)
	if err != nil {
		// The verdict is still useful without the thumbnail.
		log.Printf("failed to upload scan image: %v", err)
		return ""
	}
	return s.s3.GetPublicLinkKey(objectKey)
}

func readImage(image *multipart.FileHeader) ([]byte, string, error) {
	if image == nil {
		return nil, "", errors.New("image is required")
	}

	file, err := image.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	mimeType := image.Header.Get("Content-Type")
	if mimeType == "" {
		switch strings.ToLower(filepath.Ext(image.Filename)) {
		case ".png":
			mimeType = "image/png"
		case ".webp":
			mimeType = "image/webp"
		case ".gif":
			mimeType = "image/gif"
		default:
			mimeType = "image/jpeg"
		}
	}

	return data, mimeType, nil
}
