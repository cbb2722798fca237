package llamaparse

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	json "github.com/BalwinderCa/cvgenix/json"
)

// Request describes one parse job.
type Request struct {
	FilePath string

	// Fields optionally narrows structured extraction to specific fields.
	Fields []string

	// Schema is an optional raw JSON schema guiding structured extraction.
	Schema string

	// TargetPages overrides the client's page-range limit for this job.
	TargetPages string
}

// Result is the outcome of a completed parse job.
type Result struct {
	JobID    string
	Markdown string
	Text     string
	JSON     map[string]any
	Pages    int
}

// Outcome is delivered on the channel returned by ParseAsync.
type Outcome struct {
	Result Result
	Err    error
}

type uploadResponse struct {
	ID string `json:"id"`
}

type jobStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type markdownResult struct {
	Markdown string         `json:"markdown"`
	Text     string         `json:"text"`
	JobMeta  map[string]any `json:"job_metadata,omitempty"`
}

// Parse uploads the document, polls until the job finishes, and fetches the
// result. It blocks until completion, ctx cancellation, or poll exhaustion.
func (c *Client) Parse(ctx context.Context, req Request) (Result, error) {
	jobID, err := c.upload(ctx, req)
	if err != nil {
		return Result{}, err
	}
	c.logger.Info("llamaparse job created", zap.String("job_id", jobID))

	if err := c.waitForJob(ctx, jobID); err != nil {
		return Result{}, err
	}

	res, err := c.fetchResult(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	res.JobID = jobID
	return res, nil
}

// ParseAsync is the non-blocking form of Parse. The returned channel
// delivers exactly one Outcome and is then closed.
func (c *Client) ParseAsync(ctx context.Context, req Request) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := c.Parse(ctx, req)
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// upload posts the document with the parse options and returns the job ID.
func (c *Client) upload(ctx context.Context, req Request) (string, error) {
	f, err := os.Open(req.FilePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", req.FilePath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filepath.Base(req.FilePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read %s: %w", req.FilePath, err)
	}

	targetPages := req.TargetPages
	if targetPages == "" {
		targetPages = c.cfg.TargetPages
	}

	// Parse options tuned for resumes: LLM page parsing, no table
	// extraction, plain page separator.
	fields := map[string]string{
		"parse_mode":                "parse_page_with_llm",
		"high_res_ocr":              "false",
		"adaptive_long_table":       "false",
		"outlined_table_extraction": "false",
		"output_tables_as_HTML":     "false",
		"target_pages":              targetPages,
		"page_separator":            "\n\n",
	}
	if len(req.Fields) > 0 {
		fields["structured_output_fields"] = strings.Join(req.Fields, ",")
	}
	if req.Schema != "" {
		fields["structured_output_json_schema"] = req.Schema
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/api/v1/parsing/upload", &body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	raw, err := c.do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llamaparse upload failed: %w", err)
	}

	var up uploadResponse
	if err := json.Unmarshal(raw, &up); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if up.ID == "" {
		return "", fmt.Errorf("upload response missing job id")
	}
	return up.ID, nil
}

// waitForJob polls the job status until SUCCESS, a terminal error, ctx
// cancellation, or poll exhaustion.
func (c *Client) waitForJob(ctx context.Context, jobID string) error {
	ticker := time.NewTicker(c.cfg.PollEvery)
	defer ticker.Stop()

	for attempt := 1; attempt <= c.cfg.MaxPolls; attempt++ {
		status, err := c.jobStatus(ctx, jobID)
		if err != nil {
			return err
		}

		switch status.Status {
		case "SUCCESS":
			return nil
		case "ERROR", "CANCELED":
			msg := status.Error
			if msg == "" {
				msg = status.Status
			}
			return fmt.Errorf("llamaparse job %s failed: %s", jobID, msg)
		}

		c.logger.Debug("llamaparse job pending",
			zap.String("job_id", jobID),
			zap.String("status", status.Status),
			zap.Int("attempt", attempt),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return fmt.Errorf("llamaparse job %s did not complete after %d polls", jobID, c.cfg.MaxPolls)
}

func (c *Client) jobStatus(ctx context.Context, jobID string) (jobStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v1/parsing/job/%s", c.cfg.BaseURL, jobID), nil)
	if err != nil {
		return jobStatus{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	raw, err := c.do(httpReq)
	if err != nil {
		return jobStatus{}, fmt.Errorf("check job status: %w", err)
	}

	var status jobStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return jobStatus{}, fmt.Errorf("decode job status: %w", err)
	}
	return status, nil
}

// fetchResult retrieves the markdown result, falling back to the text
// endpoint when markdown is unavailable.
func (c *Client) fetchResult(ctx context.Context, jobID string) (Result, error) {
	md, err := c.fetchFormat(ctx, jobID, "markdown")
	if err == nil && strings.TrimSpace(md.Markdown) != "" {
		return Result{Markdown: md.Markdown, Text: md.Markdown, Pages: pagesFromMeta(md.JobMeta)}, nil
	}

	txt, terr := c.fetchFormat(ctx, jobID, "text")
	if terr != nil {
		if err != nil {
			return Result{}, fmt.Errorf("fetch result: %w", err)
		}
		return Result{}, fmt.Errorf("fetch result: %w", terr)
	}
	return Result{Text: txt.Text, Markdown: txt.Text, Pages: pagesFromMeta(txt.JobMeta)}, nil
}

func (c *Client) fetchFormat(ctx context.Context, jobID, format string) (markdownResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v1/parsing/job/%s/result/%s", c.cfg.BaseURL, jobID, format), nil)
	if err != nil {
		return markdownResult{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	raw, err := c.do(httpReq)
	if err != nil {
		return markdownResult{}, err
	}

	var res markdownResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return markdownResult{}, fmt.Errorf("decode %s result: %w", format, err)
	}
	return res, nil
}

func pagesFromMeta(meta map[string]any) int {
	if meta == nil {
		return 0
	}
	if v, ok := meta["job_pages"].(float64); ok && v > 0 {
		return int(v)
	}
	return 0
}

// do executes the request and returns the body, treating any non-2xx
// status as an error carrying the response text.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}
