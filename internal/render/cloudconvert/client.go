// Package cloudconvert adapts the CloudConvert job API to the render
// package's single-call Compiler contract. Submitting the source, polling
// the job to a terminal state and downloading the exported file are all
// hidden behind Compile.
package cloudconvert

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"tailor-backend/internal/render"
)

const (
	defaultBaseURL = "https://api.cloudconvert.com"

	taskImport  = "import-latex"
	taskConvert = "convert-to-pdf"
	taskExport  = "export-pdf"
)

// Client implements render.Compiler against the CloudConvert v2 API.
type Client struct {
	apiKey       string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewClient constructs a CloudConvert client. baseURL falls back to the
// public API endpoint when empty.
func NewClient(apiKey, baseURL string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("CLOUDCONVERT_API_KEY is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}

	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("CLOUDCONVERT_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}

	return &Client{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: timeout},
		pollInterval: 2 * time.Second,
	}, nil
}

type jobTask struct {
	Name      string          `json:"name"`
	Operation string          `json:"operation"`
	Status    string          `json:"status"`
	Message   string          `json:"message,omitempty"`
	Result    *taskResult     `json:"result,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

type taskResult struct {
	Files []taskFile `json:"files"`
}

type taskFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type job struct {
	ID     string    `json:"id"`
	Status string    `json:"status"`
	Tasks  []jobTask `json:"tasks"`
}

type jobEnvelope struct {
	Data job `json:"data"`
}

// Compile submits the LaTeX source as a conversion job, waits for a
// terminal state and downloads the exported PDF.
func (c *Client) Compile(ctx context.Context, source string) ([]byte, error) {
	created, err := c.createJob(ctx, source)
	if err != nil {
		return nil, err
	}

	finished, err := c.waitForJob(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	fileURL, err := exportedPDFURL(finished)
	if err != nil {
		return nil, err
	}

	return c.downloadArtifact(ctx, fileURL)
}

func (c *Client) createJob(ctx context.Context, source string) (job, error) {
	payload := map[string]any{
		"tasks": map[string]any{
			taskImport: map[string]any{
				"operation": "import/raw",
				"file":      base64.StdEncoding.EncodeToString([]byte(source)),
				"filename":  "resume.tex",
			},
			taskConvert: map[string]any{
				"operation":     "convert",
				"input":         taskImport,
				"output_format": "pdf",
			},
			taskExport: map[string]any{
				"operation": "export/url",
				"input":     taskConvert,
				"inline":    false,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return job{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/jobs", bytes.NewReader(body))
	if err != nil {
		return job{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return job{}, fmt.Errorf("%w: %v", render.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode >= 500 {
			return job{}, fmt.Errorf("%w: create job status %d", render.ErrServiceUnavailable, resp.StatusCode)
		}
		return job{}, &render.CompileError{Diagnostics: readDiagnostics(resp.Body)}
	}

	var envelope jobEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return job{}, fmt.Errorf("%w: decode create job: %v", render.ErrServiceUnavailable, err)
	}
	if envelope.Data.ID == "" {
		return job{}, fmt.Errorf("%w: create job returned no id", render.ErrServiceUnavailable)
	}
	return envelope.Data, nil
}

func (c *Client) waitForJob(ctx context.Context, jobID string) (job, error) {
	for {
		current, err := c.fetchJob(ctx, jobID)
		if err != nil {
			return job{}, err
		}

		switch current.Status {
		case "finished":
			return current, nil
		case "error":
			return job{}, &render.CompileError{Diagnostics: taskDiagnostics(current)}
		}

		select {
		case <-ctx.Done():
			return job{}, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) fetchJob(ctx context.Context, jobID string) (job, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/jobs/"+jobID, nil)
	if err != nil {
		return job{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return job{}, fmt.Errorf("%w: %v", render.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return job{}, fmt.Errorf("%w: fetch job status %d", render.ErrServiceUnavailable, resp.StatusCode)
	}

	var envelope jobEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return job{}, fmt.Errorf("%w: decode job: %v", render.ErrServiceUnavailable, err)
	}
	return envelope.Data, nil
}

func (c *Client) downloadArtifact(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrArtifactFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrArtifactFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: download status %d", render.ErrArtifactFetch, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", render.ErrArtifactFetch, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty artifact", render.ErrArtifactFetch)
	}
	return data, nil
}

func exportedPDFURL(finished job) (string, error) {
	for _, task := range finished.Tasks {
		if task.Name != taskExport || task.Result == nil {
			continue
		}
		for _, f := range task.Result.Files {
			if strings.HasSuffix(f.Filename, ".pdf") && f.URL != "" {
				return f.URL, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no exported pdf in job result", render.ErrArtifactFetch)
}

func taskDiagnostics(failed job) string {
	var msgs []string
	for _, task := range failed.Tasks {
		if task.Status == "error" && task.Message != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", task.Name, task.Message))
		}
	}
	if len(msgs) == 0 {
		return "job failed without diagnostics"
	}
	return strings.Join(msgs, "; ")
}

func readDiagnostics(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "request rejected"
	}
	return string(data)
}

var _ render.Compiler = (*Client)(nil)
