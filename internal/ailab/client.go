package ailab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the external resume/cover-letter AI backend. The
// platform only proxies these calls; no AI runs in-process.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type ResumeParseResult struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
}

type CoverLetterRequest struct {
	ResumeText  string `json:"resume_text" binding:"required"`
	JobTitle    string `json:"job_title" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
	JobPosting  string `json:"job_posting"`
}

type CoverLetterResult struct {
	CoverLetter string `json:"cover_letter"`
}

type BulletsRequest struct {
	ResumeText string `json:"resume_text" binding:"required"`
	JobPosting string `json:"job_posting" binding:"required"`
}

type BulletsResult struct {
	Bullets []string `json:"bullets"`
}

// ParseResume sends raw resume text for structured extraction.
func (c *Client) ParseResume(ctx context.Context, resumeText string) (*ResumeParseResult, error) {
	var out ResumeParseResult
	if err := c.post(ctx, "/resume/parse", map[string]string{"resume_text": resumeText}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateCoverLetter asks the backend for a tailored cover letter.
func (c *Client) GenerateCoverLetter(ctx context.Context, req CoverLetterRequest) (*CoverLetterResult, error) {
	var out CoverLetterResult
	if err := c.post(ctx, "/cover-letter", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateBullets rewrites resume experience as posting-targeted
// bullet points.
func (c *Client) GenerateBullets(ctx context.Context, req BulletsRequest) (*BulletsResult, error) {
	var out BulletsResult
	if err := c.post(ctx, "/bullets", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ai backend request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("ai backend error (%d): %s", resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
