package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resulens-backend/internal/bootstrap"
	"resulens-backend/internal/pdfx"
	"resulens-backend/internal/scoring"
	"resulens-backend/internal/shared/config"
)

const finalizedReply = `{"overallScore":72,"ATS":{"score":80,"tips":[]},"toneAndStyle":{"score":70,"tips":[]},"content":{"score":65,"tips":[]},"structure":{"score":75,"tips":[]},"skills":{"score":70,"tips":[]}}`

type stubScorer struct{}

func (stubScorer) Feedback(ctx context.Context, documentPath, instructions string) (*scoring.ReplyEnvelope, error) {
	return &scoring.ReplyEnvelope{
		Message: scoring.Message{
			Role:    "assistant",
			Content: scoring.MessageContent{Text: finalizedReply},
		},
	}, nil
}

type stubConverter struct{}

func (stubConverter) FirstPageImage(ctx context.Context, data []byte, fileName string) (pdfx.Image, error) {
	return pdfx.Image{Name: "page.png", Data: []byte("png-bytes")}, nil
}

func buildTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		ObjectStoreType: "local",
		Env:             "dev",
	}
	app, err := bootstrap.Build(cfg,
		bootstrap.WithScorer(stubScorer{}),
		bootstrap.WithConverter(stubConverter{}),
	)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func TestHealthEndpoint(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestSubmitAndFetchResume(t *testing.T) {
	app := buildTestApp(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", "resume.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte("%PDF-1.4 test payload")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	for k, v := range map[string]string{
		"company-name":    "Acme",
		"job-title":       "Backend Engineer",
		"job-description": "Go, distributed systems",
	} {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		Record struct {
			ID       string `json:"id"`
			Feedback struct {
				OverallScore int `json:"overallScore"`
			} `json:"feedback"`
		} `json:"record"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Record.ID == "" {
		t.Fatal("expected record id")
	}
	if created.Record.Feedback.OverallScore != 72 {
		t.Errorf("overallScore = %d, want 72", created.Record.Feedback.OverallScore)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/resumes/"+created.Record.ID, nil)
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", respGet.Code)
	}

	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil)
	respList := httptest.NewRecorder()
	app.Router.ServeHTTP(respList, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", respList.Code)
	}
	var listed struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(listed.Items))
	}
}
