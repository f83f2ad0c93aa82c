package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/okian/drawdown/internal/adapters/repository"
	"github.com/okian/drawdown/internal/domain/model"
)

// Client talks to the drawdown HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// JobAck is the response to a job submission.
type JobAck struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Health checks that the service answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// Submit posts req to /v1/jobs and returns the acknowledgement together
// with the HTTP status.
func (c *Client) Submit(ctx context.Context, req model.Request) (JobAck, int, error) { //nolint:gocritic // hugeParam: marshaled once
	body, err := json.Marshal(req)
	if err != nil {
		return JobAck{}, 0, eris.Wrap(err, "marshal request")
	}
	resp, err := c.do(ctx, http.MethodPost, "/v1/jobs", body)
	if err != nil {
		return JobAck{}, 0, err
	}
	defer resp.Body.Close()

	var ack JobAck
	if resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
			return JobAck{}, resp.StatusCode, eris.Wrap(err, "decode job ack")
		}
	}
	return ack, resp.StatusCode, nil
}

// Job fetches one job.
func (c *Client) Job(ctx context.Context, id string) (repository.Job, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/jobs/"+id, nil)
	if err != nil {
		return repository.Job{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return repository.Job{}, eris.Wrapf(repository.ErrNotFound, "job %s", id)
	}
	if resp.StatusCode != http.StatusOK {
		return repository.Job{}, eris.Errorf("job %s: status %d", id, resp.StatusCode)
	}
	var job repository.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return repository.Job{}, eris.Wrap(err, "decode job")
	}
	return job, nil
}

// Await polls a job until it reaches a terminal status or ctx is done.
func (c *Client) Await(ctx context.Context, id string, interval time.Duration) (repository.Job, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		job, err := c.Job(ctx, id)
		if err != nil {
			return job, err
		}
		if job.Status.Terminal() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, eris.Wrapf(ctx.Err(), "waiting for job %s", id)
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "%s %s", method, path)
	}
	return resp, nil
}
