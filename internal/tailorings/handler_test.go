package tailorings_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/render"
	"tailor-backend/internal/shared/auth"
	"tailor-backend/internal/shared/config"
	"tailor-backend/internal/shared/server"
	"tailor-backend/internal/tailorings"
)

const testSecret = "handler-test-secret"

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &tailorings.Service{Repo: tailorings.NewMemoryRepo()}
	return server.NewRouter(server.RouterDeps{
		Config:     config.Config{Env: "dev", Port: "0"},
		Verifier:   auth.NewJWTVerifier(testSecret),
		Tailorings: tailorings.NewHandler(svc),
		Render:     render.NewHandler(&render.Service{Compiler: failingCompiler{}}),
	})
}

type failingCompiler struct{}

func (failingCompiler) Compile(ctx context.Context, source string) ([]byte, error) {
	return nil, render.ErrServiceUnavailable
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.SignForTest(testSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func multipartUpload(t *testing.T, jobDescription, fileName, contentType string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("jobDescription", jobDescription); err != nil {
		t.Fatalf("write field: %v", err)
	}

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, fileName))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(fileData); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func createTailoring(t *testing.T, r *gin.Engine, token, jobDescription, resumeText string) tailorings.TailoringResponse {
	t.Helper()
	body, contentType := multipartUpload(t, jobDescription, "resume.txt", "text/plain", []byte(resumeText))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tailorings", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp tailorings.TailoringResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}
	return resp
}

func TestCreateAndFetchTailoring(t *testing.T) {
	r := newTestServer(t)
	token := tokenFor(t, "user-a")

	created := createTailoring(t, r, token, "Senior Go engineer", "Jane Doe\nGo, Postgres, AWS")
	if created.ID == "" {
		t.Fatal("created record has no id")
	}
	if created.ResumeText != "Jane Doe\nGo, Postgres, AWS" {
		t.Fatalf("resumeText = %q", created.ResumeText)
	}
	if created.TailoredText != nil || created.TailoredLatex != nil {
		t.Fatal("new record must have null tailored fields")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tailorings/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var fetched tailorings.TailoringResponse
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fetched.ID != created.ID || fetched.JobDescription != "Senior Go engineer" {
		t.Fatalf("fetched = %+v", fetched)
	}
}

func TestCreateRequiresJobDescription(t *testing.T) {
	r := newTestServer(t)
	token := tokenFor(t, "user-a")

	body, contentType := multipartUpload(t, "   ", "resume.txt", "text/plain", []byte("Jane Doe"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tailorings", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateRejectsUnsupportedFormat(t *testing.T) {
	r := newTestServer(t)
	token := tokenFor(t, "user-a")

	body, contentType := multipartUpload(t, "Some role", "resume.html", "text/html", []byte("<html>hi</html>"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tailorings", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error.Code != "unsupported_format" {
		t.Fatalf("error code = %q", resp.Error.Code)
	}
}

func TestForeignRecordIndistinguishableFromMissing(t *testing.T) {
	r := newTestServer(t)
	tokenA := tokenFor(t, "user-a")
	tokenB := tokenFor(t, "user-b")

	created := createTailoring(t, r, tokenA, "Backend role", "Jane Doe resume")

	fetch := func(token, id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/tailorings/"+id, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	foreign := fetch(tokenB, created.ID)
	missing := fetch(tokenB, "no-such-id")

	if foreign.Code != http.StatusNotFound || missing.Code != http.StatusNotFound {
		t.Fatalf("statuses = %d / %d, want 404 / 404", foreign.Code, missing.Code)
	}
	if foreign.Body.String() != missing.Body.String() {
		t.Fatalf("foreign and missing responses differ:\n%s\n%s", foreign.Body.String(), missing.Body.String())
	}
}

func TestListReturnsNewestFirstAndCapsAtDefault(t *testing.T) {
	r := newTestServer(t)
	token := tokenFor(t, "user-a")

	total := tailorings.DefaultListLimit + 3
	var lastID string
	for i := 0; i < total; i++ {
		rec := createTailoring(t, r, token, fmt.Sprintf("role %d", i), fmt.Sprintf("resume body %d", i))
		lastID = rec.ID
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tailorings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var list []tailorings.TailoringSummary
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != tailorings.DefaultListLimit {
		t.Fatalf("list length = %d, want %d", len(list), tailorings.DefaultListLimit)
	}
	if list[0].ID != lastID {
		t.Fatalf("first item = %s, want newest %s", list[0].ID, lastID)
	}
}

func TestSetResultWriteOnce(t *testing.T) {
	r := newTestServer(t)
	token := tokenFor(t, "user-a")

	created := createTailoring(t, r, token, "Platform role", "resume text")

	put := func() *httptest.ResponseRecorder {
		payload, _ := json.Marshal(gin.H{
			"tailoredText":  "tailored resume",
			"tailoredLatex": `\section{Experience}`,
		})
		req := httptest.NewRequest(http.MethodPut, "/api/v1/tailorings/"+created.ID+"/result", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := put(); w.Code != http.StatusNoContent {
		t.Fatalf("first put status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := put(); w.Code != http.StatusConflict {
		t.Fatalf("second put status = %d, want 409", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tailorings/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var fetched tailorings.TailoringResponse
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fetched.TailoredText == nil || *fetched.TailoredText != "tailored resume" {
		t.Fatalf("tailoredText = %v", fetched.TailoredText)
	}
}

func TestEndpointsRequireAuth(t *testing.T) {
	r := newTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/tailorings"},
		{http.MethodGet, "/api/v1/tailorings"},
		{http.MethodGet, "/api/v1/tailorings/some-id"},
		{http.MethodPost, "/api/v1/render"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s status = %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}

func TestHealthIsPublic(t *testing.T) {
	r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
}
