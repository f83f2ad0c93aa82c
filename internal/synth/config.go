package synth

import (
	"time"

	"github.com/okian/drawdown/internal/domain/model"
)

// Scenario describes one synthetic pumping test: the true aquifer
// parameters, the test setup and how the observations are sampled.
type Scenario struct {
	Method model.Method         `json:"method" yaml:"method"`
	Params model.TestParameters `json:"params" yaml:"params"`

	// True parameters the observations are generated from.
	Storativity      float64 `json:"storativity,omitempty" yaml:"storativity,omitempty"`
	Transmissivity   float64 `json:"transmissivity,omitempty" yaml:"transmissivity,omitempty"`
	StorativityRatio float64 `json:"storativity_ratio,omitempty" yaml:"storativity_ratio,omitempty"`

	// Points are sampled log-evenly over [Start, End] in the unit of x.
	Points int     `json:"points" yaml:"points"`
	Start  float64 `json:"start" yaml:"start"`
	End    float64 `json:"end" yaml:"end"`

	// Noise is the relative standard deviation of multiplicative Gaussian
	// noise; zero produces exact forward-model values.
	Noise float64 `json:"noise,omitempty" yaml:"noise,omitempty"`
	Seed  uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Config holds configuration for a load run against a live server.
type Config struct {
	BaseURL      string        // Base URL of the service
	Count        int           // Number of jobs to submit
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between job status polls
	Tolerance    float64       // Accepted relative error of recovered parameters
	Scenario     Scenario      // Template; each job uses Seed+i
	Verbose      bool          // Log every job
}

// Stats holds run statistics.
type Stats struct {
	Generated       int
	Submitted       int
	Accepted        int
	Duplicate       int
	Rejected        int
	Failed          int
	Fitted          int
	FitFailed       int
	WithinTolerance int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
