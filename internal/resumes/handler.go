package resumes

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"resulens-backend/internal/shared/server/respond"
)

const maxUploadSize = 20 << 20 // 20MiB

// multipart boilerplate and the job-context fields ride alongside the file
const maxRequestSize = maxUploadSize + 64<<10

var pdfMagic = []byte("%PDF-")

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.analyze)
	rg.GET("/resumes", h.list)
	rg.GET("/resumes/:id", h.get)
}

type analyzeResponse struct {
	Record   Record        `json:"record"`
	Statuses []StatusEvent `json:"statuses"`
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		status := http.StatusBadRequest
		msg := "file is required"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
			msg = "file exceeds the 20MiB limit"
		}
		respond.Error(c, status, "validation_error", msg, nil)
		return
	}
	if fileHeader.Size > maxUploadSize {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file exceeds the 20MiB limit", nil)
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF files are accepted", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF files are accepted", nil)
		return
	}

	in := SubmitInput{
		FileName:       fileHeader.Filename,
		Data:           data,
		CompanyName:    strings.TrimSpace(c.PostForm("company-name")),
		JobTitle:       strings.TrimSpace(c.PostForm("job-title")),
		JobDescription: strings.TrimSpace(c.PostForm("job-description")),
	}

	statuses := make([]StatusEvent, 0, 8)
	rec, err := h.Svc.Analyze(c.Request.Context(), in, func(ev StatusEvent) {
		statuses = append(statuses, ev)
	})
	if rec.ID != "" {
		c.Set("resumeId", rec.ID)
	}
	if err != nil {
		var stageErr *StageError
		if errors.As(err, &stageErr) {
			c.Set("pipelineStage", string(stageErr.Stage))
			respond.Error(c, http.StatusBadGateway, "pipeline_error", FailureMessage(stageErr.Stage), gin.H{
				"stage":    stageErr.Stage,
				"statuses": statuses,
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "pipeline_error", "analysis failed", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, analyzeResponse{Record: rec, Statuses: statuses})
}

func (h *Handler) list(c *gin.Context) {
	records, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "list_failed", "unable to list resumes", nil)
		return
	}
	respond.OK(c, gin.H{"items": records})
}

func (h *Handler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	rec, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if IsNotFound(err) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "get_failed", "unable to load resume", nil)
		return
	}
	respond.OK(c, rec)
}
