package smoke

import (
	"context"
	"time"

	"github.com/abdul-hamid-achik/hitsmoke/packages/http"
	"github.com/go-logr/logr"
)

const (
	// DefaultBaseURL is the server the sequence targets when none is configured.
	DefaultBaseURL = "http://localhost:8080"
	// DefaultEndpoint is the path every step is sent to.
	DefaultEndpoint = "/test"
)

// Reporter receives each step as it runs. StepCompleted is only called for
// steps that produced a response.
type Reporter interface {
	StepStarted(step Step)
	StepCompleted(step Step, resp *http.Response)
}

type nopReporter struct{}

func (nopReporter) StepStarted(Step) {}

func (nopReporter) StepCompleted(Step, *http.Response) {}

type Runner struct {
	baseURL  string
	endpoint string
	steps    []Step
	timeout  time.Duration
	client   *http.Client
	reporter Reporter
	logger   logr.Logger
}

type Option func(*Runner)

func WithBaseURL(u string) Option {
	return func(r *Runner) {
		r.baseURL = u
	}
}

func WithEndpoint(p string) Option {
	return func(r *Runner) {
		r.endpoint = p
	}
}

func WithClient(c *http.Client) Option {
	return func(r *Runner) {
		r.client = c
	}
}

func WithReporter(rep Reporter) Option {
	return func(r *Runner) {
		r.reporter = rep
	}
}

func WithLogger(l logr.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithTimeout bounds each step. Zero leaves only the client's own timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithSteps replaces the default sequence.
func WithSteps(steps []Step) Option {
	return func(r *Runner) {
		r.steps = steps
	}
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		baseURL:  DefaultBaseURL,
		endpoint: DefaultEndpoint,
		steps:    DefaultSteps(),
		reporter: nopReporter{},
		logger:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = http.NewClient()
	}
	return r
}

// URL is the full target every step is sent to.
func (r *Runner) URL() string {
	return http.JoinURL(r.baseURL, r.endpoint)
}

type RunResult struct {
	URL      string
	Results  []*StepResult
	Duration time.Duration
}

type StepResult struct {
	Step     Step
	Request  *http.Request
	Response *http.Response
}

// Run executes the steps in order. It stops at the first step whose request
// cannot be built or sent and returns the partial result together with a
// *StepError. HTTP error statuses are not failures.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	url := r.URL()
	result := &RunResult{URL: url}

	for i, step := range r.steps {
		r.reporter.StepStarted(step)

		req, err := step.BuildRequest(url)
		if err != nil {
			result.Duration = time.Since(start)
			return result, &StepError{Index: i, Step: step, Err: err}
		}
		if r.timeout > 0 {
			req.SetTimeout(r.timeout)
		}

		r.logger.V(1).Info("sending request", "step", i+1, "method", req.Method, "url", req.URL, "bytes", len(req.Body))

		resp, err := r.client.Do(ctx, req)
		if err != nil {
			r.logger.Error(err, "request failed", "step", i+1, "method", req.Method, "url", req.URL)
			result.Duration = time.Since(start)
			return result, &StepError{Index: i, Step: step, Err: err}
		}

		r.logger.V(1).Info("response received",
			"step", i+1,
			"status", resp.StatusCode,
			"contentType", resp.ContentType(),
			"requestId", resp.Header("X-Request-Id"),
			"durationMs", resp.DurationMs(),
		)

		result.Results = append(result.Results, &StepResult{
			Step:     step,
			Request:  req,
			Response: resp,
		})
		r.reporter.StepCompleted(step, resp)
	}

	result.Duration = time.Since(start)
	return result, nil
}
