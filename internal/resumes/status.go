package resumes

// Stage identifies one step of the analysis pipeline.
type Stage string

const (
	StageUploading       Stage = "uploading"
	StageConverting      Stage = "converting"
	StageUploadingImage  Stage = "uploading-image"
	StagePersistingDraft Stage = "persisting-draft"
	StageInvoking        Stage = "invoking"
	StageValidating      Stage = "validating"
	StageFinalized       Stage = "finalized"
	StageFailed          Stage = "failed"
)

// StatusEvent is emitted to the caller at every stage transition. It is
// observational only and never persisted.
type StatusEvent struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// EmitFunc receives status events synchronously between stages. A nil
// EmitFunc suppresses emission.
type EmitFunc func(StatusEvent)

var stageMessages = map[Stage]string{
	StageUploading:       "Uploading your file...",
	StageConverting:      "Converting PDF into an image...",
	StageUploadingImage:  "Saving image to storage...",
	StagePersistingDraft: "Compiling your data...",
	StageInvoking:        "Running analysis...",
	StageValidating:      "Interpreting the results...",
	StageFinalized:       "Analysis complete",
}

var failureMessages = map[Stage]string{
	StageUploading:       "Error: Could not upload file",
	StageConverting:      "Error: Conversion failed",
	StageUploadingImage:  "Error: Could not save image",
	StagePersistingDraft: "Error: Could not save your data",
	StageInvoking:        "Error: Could not process resume",
	StageValidating:      "Error: Unable to interpret the results",
	StageFinalized:       "Error: Could not save the results",
}

// StatusMessage returns the human-readable message for a stage transition.
func StatusMessage(stage Stage) string {
	return stageMessages[stage]
}

// FailureMessage returns the terminal message shown when the given stage
// fails.
func FailureMessage(stage Stage) string {
	if msg, ok := failureMessages[stage]; ok {
		return msg
	}
	return "Error: Could not process resume"
}
