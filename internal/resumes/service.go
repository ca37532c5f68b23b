package resumes

import (
	"bytes"
	"context"
	"errors"

	"github.com/google/uuid"

	"resulens-backend/internal/feedback"
	"resulens-backend/internal/kv"
	"resulens-backend/internal/pdfx"
	"resulens-backend/internal/scoring"
	"resulens-backend/internal/shared/storage/object"
	"resulens-backend/internal/shared/telemetry"
)

// SubmitInput is one caller-initiated analysis request. Data holds the raw
// PDF payload; size and type preconditions are enforced before submission.
type SubmitInput struct {
	FileName       string
	Data           []byte
	CompanyName    string
	JobTitle       string
	JobDescription string
}

// Service drives the analysis pipeline. Stages run strictly in order on
// behalf of one caller; a stage failure halts the run and leaves any
// already-persisted draft intact.
type Service struct {
	blobs     object.BlobStore
	converter pdfx.Converter
	scorer    scoring.Client
	records   *Store
	newID     func() string
}

// NewService wires the pipeline's collaborators.
func NewService(blobs object.BlobStore, converter pdfx.Converter, scorer scoring.Client, records *Store) *Service {
	return &Service{
		blobs:     blobs,
		converter: converter,
		scorer:    scorer,
		records:   records,
		newID:     uuid.NewString,
	}
}

// Analyze runs the full pipeline for one submission. A status event is
// emitted before each stage and a final event reports completion or the
// failing stage. On failure the returned error is a *StageError and the
// returned record reflects whatever was persisted (zero value if the draft
// was never written).
func (s *Service) Analyze(ctx context.Context, in SubmitInput, emit EmitFunc) (Record, error) {
	notify := func(ev StatusEvent) {
		if emit != nil {
			emit(ev)
		}
	}
	fail := func(stage Stage, sentinel, cause error, rec Record) (Record, error) {
		notify(StatusEvent{Stage: StageFailed, Message: FailureMessage(stage)})
		err := stageFailure(stage, sentinel, cause)
		telemetry.Error("resumes.pipeline.failed", map[string]any{
			"stage": string(stage),
			"err":   err.Error(),
		})
		return rec, err
	}

	notify(StatusEvent{Stage: StageUploading, Message: StatusMessage(StageUploading)})
	resumePath, err := s.blobs.Upload(ctx, in.FileName, bytes.NewReader(in.Data))
	if err != nil || resumePath == "" {
		return fail(StageUploading, ErrUpload, err, Record{})
	}

	// Conversion reads the original payload, not the uploaded copy.
	notify(StatusEvent{Stage: StageConverting, Message: StatusMessage(StageConverting)})
	img, err := s.converter.FirstPageImage(ctx, in.Data, in.FileName)
	if err != nil || len(img.Data) == 0 {
		return fail(StageConverting, ErrConversion, err, Record{})
	}

	notify(StatusEvent{Stage: StageUploadingImage, Message: StatusMessage(StageUploadingImage)})
	imagePath, err := s.blobs.Upload(ctx, img.Name, bytes.NewReader(img.Data))
	if err != nil || imagePath == "" {
		return fail(StageUploadingImage, ErrImageUpload, err, Record{})
	}

	// The draft write must land before scoring so a record exists even if
	// every later stage fails.
	notify(StatusEvent{Stage: StagePersistingDraft, Message: StatusMessage(StagePersistingDraft)})
	rec := Record{
		ID:             s.newID(),
		ResumePath:     resumePath,
		ImagePath:      imagePath,
		CompanyName:    in.CompanyName,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		Feedback:       feedback.Zero(),
	}
	if err := s.records.Save(ctx, rec); err != nil {
		return fail(StagePersistingDraft, ErrPersistence, err, Record{})
	}

	notify(StatusEvent{Stage: StageInvoking, Message: StatusMessage(StageInvoking)})
	instructions := scoring.Instructions(in.JobTitle, in.JobDescription)
	reply, err := s.scorer.Feedback(ctx, resumePath, instructions)
	if err != nil || reply == nil {
		return fail(StageInvoking, ErrScoring, err, rec)
	}

	notify(StatusEvent{Stage: StageValidating, Message: StatusMessage(StageValidating)})
	text, err := reply.Text()
	if err != nil {
		return fail(StageValidating, ErrFeedbackParse, err, rec)
	}
	fb, err := feedback.Parse(text)
	if err != nil {
		return fail(StageValidating, ErrFeedbackParse, err, rec)
	}

	rec.Feedback = fb
	if err := s.records.Save(ctx, rec); err != nil {
		return fail(StageFinalized, ErrPersistence, err, rec)
	}

	notify(StatusEvent{Stage: StageFinalized, Message: StatusMessage(StageFinalized)})
	telemetry.Info("resumes.pipeline.finalized", map[string]any{
		"resumeId":     rec.ID,
		"overallScore": fb.OverallScore,
	})
	return rec, nil
}

// Get returns one stored record by id.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.records.Get(ctx, id)
}

// List returns every readable stored record.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.records.List(ctx)
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, kv.ErrNotFound)
}
