package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type fakeBlobStore struct {
	data    map[string][]byte
	openErr error
}

func (f *fakeBlobStore) Upload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	return fileName, nil
}

func (f *fakeBlobStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	data, ok := f.data[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestNewClientValidation(t *testing.T) {
	store := &fakeBlobStore{}
	if _, err := NewClient("", "gpt-4o-mini", store); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient("key", "", store); err == nil {
		t.Fatal("expected error for missing model")
	}
	if _, err := NewClient("key", "gpt-4o-mini", nil); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewClient("key", "gpt-4o-mini", store); err != nil {
		t.Fatalf("NewClient: %v", err)
	}
}

func TestCompleteSendsChatRequest(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	var mu sync.Mutex
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		gotAuth = r.Header.Get("Authorization")
		gotBody = payload
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  {\"overallScore\":72}  "}}]}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4o-mini", &fakeBlobStore{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	content, err := client.complete(context.Background(), "score this resume", "resume text")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if content != `{"overallScore":72}` {
		t.Fatalf("content = %q", content)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Fatalf("model = %v", gotBody["model"])
	}
	if temp, ok := gotBody["temperature"].(float64); !ok || temp != 0 {
		t.Fatalf("temperature = %v", gotBody["temperature"])
	}
	rf, _ := gotBody["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Fatalf("response_format = %v", gotBody["response_format"])
	}
	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	system, _ := messages[0].(map[string]any)
	if system["role"] != "system" || system["content"] != "score this resume" {
		t.Fatalf("system message = %v", system)
	}
	user, _ := messages[1].(map[string]any)
	if user["role"] != "user" || user["content"] != "resume text" {
		t.Fatalf("user message = %v", user)
	}
}

func TestCompleteAPIError(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit_error"}}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4o-mini", &fakeBlobStore{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.complete(context.Background(), "sys", "user")
	if err == nil || !bytes.Contains([]byte(err.Error()), []byte("rate limit exceeded")) {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestCompleteMissingChoices(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4o-mini", &fakeBlobStore{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.complete(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error for missing choices")
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4o-mini", &fakeBlobStore{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.complete(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestFeedbackStoreOpenError(t *testing.T) {
	store := &fakeBlobStore{openErr: errors.New("bucket unavailable")}
	client, err := NewClient("test-key", "gpt-4o-mini", store)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Feedback(context.Background(), "uploads/doc.pdf", "sys"); err == nil {
		t.Fatal("expected error when document cannot be opened")
	}
}

func TestFeedbackUnreadableDocument(t *testing.T) {
	store := &fakeBlobStore{data: map[string][]byte{
		"uploads/doc.pdf": []byte("not a pdf"),
	}}
	client, err := NewClient("test-key", "gpt-4o-mini", store)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Feedback(context.Background(), "uploads/doc.pdf", "sys"); err == nil {
		t.Fatal("expected error for unparseable document")
	}
}
