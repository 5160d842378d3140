package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/claimgate/internal/model"
	"github.com/ppiankov/claimgate/internal/pipeline"
	"github.com/ppiankov/claimgate/internal/policy"
)

type fakeIntake struct {
	result *model.IntakeResult
	err    error
}

func (f *fakeIntake) Process(ctx context.Context, reference string) (*model.IntakeResult, error) {
	return f.result, f.err
}

type fakeAgent struct {
	record model.DecisionRecord
	err    error
}

func (f *fakeAgent) Decide(ctx context.Context, claimDescription string) (model.DecisionRecord, error) {
	return f.record, f.err
}

type fakeIngester struct {
	stats policy.IngestStats
	err   error
	dir   string
}

func (f *fakeIngester) IngestDir(ctx context.Context, dir string, workers int) (policy.IngestStats, error) {
	f.dir = dir
	return f.stats, f.err
}

func testServer(intake *fakeIntake, agent *fakeAgent, ingester Ingester) *Server {
	p := pipeline.New(intake, agent)
	return New(p, ingester, model.ServerConfig{}, model.PolicyConfig{CorpusDir: "policies"})
}

func happyServer() *Server {
	return testServer(
		&fakeIntake{result: &model.IntakeResult{
			ClaimDescription: "Consultation, $120",
			InputType:        model.InputText,
			ExtractedData:    &model.ExtractedClaimData{},
		}},
		&fakeAgent{record: model.DecisionRecord{
			Decision:         model.DecisionApproved,
			ConfidenceScore:  90,
			Reasoning:        []string{"Covered"},
			PolicyReferences: []string{"Section 1"},
		}},
		&fakeIngester{},
	)
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	happyServer().Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestTextStream_EmitsNDJSONInStageOrder(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process-claim-stream/",
		strings.NewReader(`{"claim_description": "Consultation, $120"}`))

	happyServer().Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Expected NDJSON content type, got %q", ct)
	}

	var nodes []string
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		var msg struct {
			Node string `json:"node"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		nodes = append(nodes, msg.Node)
	}

	want := []string{"Intake Node", "Policy Node", "Risk Analyze Node", "Routing Node"}
	if len(nodes) != len(want) {
		t.Fatalf("Expected %d lines, got %d: %v", len(want), len(nodes), nodes)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Errorf("Line %d: expected node %q, got %q", i, want[i], nodes[i])
		}
	}
}

func TestTextStream_PipelineErrorArrivesInBand(t *testing.T) {
	s := testServer(
		&fakeIntake{err: errors.New("unreadable image")},
		&fakeAgent{},
		&fakeIngester{},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process-claim-stream/",
		strings.NewReader(`{"claim_description": "x"}`))

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with in-band error, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"Error"`) {
		t.Errorf("Expected Error node in stream, got %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "unreadable image") {
		t.Errorf("Expected error description in stream, got %s", rec.Body.String())
	}
}

func TestTextStream_BadBodyRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process-claim-stream/", strings.NewReader("not json"))

	happyServer().Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestFileStream_RejectsUnsupportedContentType(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="claim.csv"`},
		"Content-Type":        {"text/csv"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("a,b,c"))
	mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process-claim-file-stream/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	happyServer().Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body["detail"], "Unsupported file type: text/csv") {
		t.Errorf("Unexpected detail %q", body["detail"])
	}
}

func TestFileStream_OversizedUploadRejected(t *testing.T) {
	s := testServerWithUploadLimit(t, 10)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="claim.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(bytes.Repeat([]byte("x"), 100))
	mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process-claim-file-stream/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected 413 for oversized upload, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body["detail"], "File too large") {
		t.Errorf("Unexpected detail %q", body["detail"])
	}
}

func TestFileStream_UploadAtLimitAccepted(t *testing.T) {
	s := testServerWithUploadLimit(t, 100)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="claim.pdf"`},
		"Content-Type":        {"application/pdf"},
	})
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(bytes.Repeat([]byte("x"), 100))
	mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process-claim-file-stream/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for upload exactly at the limit, got %d: %s", rec.Code, rec.Body.String())
	}
}

func testServerWithUploadLimit(t *testing.T, limit int64) *Server {
	t.Helper()
	p := pipeline.New(
		&fakeIntake{result: &model.IntakeResult{ClaimDescription: "x", InputType: model.InputPDF}},
		&fakeAgent{record: model.DecisionRecord{Decision: model.DecisionApproved, ConfidenceScore: 90}},
	)
	return New(p, &fakeIngester{}, model.ServerConfig{MaxUploadBytes: limit}, model.PolicyConfig{})
}

func TestFileStream_MissingFileFieldRejected(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("other", "value")
	mw.Close()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/process-claim-file-stream/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	happyServer().Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestTextClaim_ReturnsAggregateResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process-claim/text",
		strings.NewReader(`{"claim_description": "Consultation, $120"}`))

	happyServer().Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp model.ClaimResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Result.Decision != model.DecisionApproved {
		t.Errorf("Expected APPROVED, got %q", resp.Result.Decision)
	}
	if resp.Intake.ClaimDescription != "Consultation, $120" {
		t.Errorf("Unexpected intake %+v", resp.Intake)
	}
}

func TestTextClaim_PipelineFailureIs500(t *testing.T) {
	s := testServer(
		&fakeIntake{result: &model.IntakeResult{ClaimDescription: "x", InputType: model.InputText}},
		&fakeAgent{err: errors.New("agent down")},
		&fakeIngester{},
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process-claim/text",
		strings.NewReader(`{"claim_description": "x"}`))

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Error processing claim") {
		t.Errorf("Unexpected body %s", rec.Body.String())
	}
}

func TestIngestEndpoint(t *testing.T) {
	ingester := &fakeIngester{stats: policy.IngestStats{Documents: 3, Clauses: 17}}
	s := testServer(&fakeIntake{}, &fakeAgent{}, ingester)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ingest-document/", nil)

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ingester.dir != "policies" {
		t.Errorf("Expected configured corpus dir, got %q", ingester.dir)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["documents"] != float64(3) || body["clauses"] != float64(17) {
		t.Errorf("Unexpected counts %v", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	p := pipeline.New(&fakeIntake{}, &fakeAgent{})
	s := New(p, &fakeIngester{}, model.ServerConfig{AllowedOrigins: []string{"https://portal.example.com"}}, model.PolicyConfig{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/process-claim/text", nil)
	req.Header.Set("Origin", "https://portal.example.com")

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.example.com" {
		t.Errorf("Unexpected allowed origin %q", got)
	}
}

func TestCORS_EchoesAnyConfiguredOrigin(t *testing.T) {
	p := pipeline.New(&fakeIntake{}, &fakeAgent{})
	s := New(p, &fakeIngester{}, model.ServerConfig{
		AllowedOrigins: []string{"https://portal.example.com", "https://admin.example.com"},
	}, model.PolicyConfig{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://admin.example.com")

	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Errorf("Expected second configured origin echoed, got %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Errorf("Expected Vary: Origin on per-origin response, got %q", got)
	}
}

func TestCORS_UnknownOriginGetsNoAllowHeader(t *testing.T) {
	p := pipeline.New(&fakeIntake{}, &fakeAgent{})
	s := New(p, &fakeIngester{}, model.ServerConfig{
		AllowedOrigins: []string{"https://portal.example.com"},
	}, model.PolicyConfig{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no allow header for unknown origin, got %q", got)
	}
}

func TestCORS_WildcardAllowsEverything(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")

	happyServer().Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
}
