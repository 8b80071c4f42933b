package simulate

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/sanspareilsmyn/moltlens/internal/sample"
)

var ErrInvalidSettings = errors.New("invalid generator settings")

// Settings shape a synthetic day of counter samples.
type Settings struct {
	Start    time.Time
	Duration time.Duration
	Interval time.Duration // mean spacing between samples
	Jitter   float64       // fraction of Interval added or removed at random

	OutageProbability float64 // chance per sample of going silent
	OutageMax         time.Duration
	BurstProbability  float64 // chance per sample of a molt burst
	BurstMax          int64

	MoltsPerMinute float64
	LikesPerMolt   float64
	ViewsPerMolt   float64

	Seed int64
}

func DefaultSettings(start time.Time) Settings {
	return Settings{
		Start:             start,
		Duration:          24 * time.Hour,
		Interval:          time.Minute,
		Jitter:            0.3,
		OutageProbability: 0.005,
		OutageMax:         15 * time.Minute,
		BurstProbability:  0.01,
		BurstMax:          200,
		MoltsPerMinute:    2,
		LikesPerMolt:      0.4,
		ViewsPerMolt:      12,
		Seed:              1,
	}
}

func (s Settings) validate() error {
	switch {
	case s.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidSettings)
	case s.Interval < time.Second:
		return fmt.Errorf("%w: interval must be at least 1s", ErrInvalidSettings)
	case s.Jitter < 0 || s.Jitter >= 1:
		return fmt.Errorf("%w: jitter must be in [0, 1)", ErrInvalidSettings)
	case s.OutageProbability < 0 || s.BurstProbability < 0:
		return fmt.Errorf("%w: probabilities must be non-negative", ErrInvalidSettings)
	}
	return nil
}

// Generator produces monotonically non-decreasing counters at irregular
// intervals with occasional outages and bursts.
type Generator struct {
	settings Settings
	rng      *rand.Rand
}

func NewGenerator(s Settings) (*Generator, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &Generator{settings: s, rng: rand.New(rand.NewSource(s.Seed))}, nil
}

// Samples returns the whole synthetic series.
func (g *Generator) Samples() []sample.Sample {
	s := g.settings
	end := s.Start.Add(s.Duration)

	var (
		out     []sample.Sample
		now     = s.Start.UTC().Truncate(time.Second)
		counter = sample.Counters{Molts: 1000, Likes: 300, Views: 12000}
		carry   float64
	)
	for !now.After(end) {
		out = append(out, sample.Sample{
			Timestamp: now.Format(time.RFC3339),
			Epoch:     now.Unix(),
			Counters:  counter,
		})

		step := g.nextStep()
		if g.rng.Float64() < s.OutageProbability && s.OutageMax > 0 {
			step += time.Duration(g.rng.Int63n(int64(s.OutageMax)))
			step = step.Truncate(time.Second)
		}

		// fractional molts carry into the next step
		expected := s.MoltsPerMinute*step.Minutes() + carry
		molts := int64(expected)
		carry = expected - float64(molts)
		if g.rng.Float64() < s.BurstProbability && s.BurstMax > 0 {
			molts += 1 + g.rng.Int63n(s.BurstMax)
		}

		counter.Molts += molts
		counter.Likes += g.scaled(molts, s.LikesPerMolt)
		counter.Views += g.scaled(molts, s.ViewsPerMolt) + int64(g.rng.Intn(5))
		now = now.Add(step)
	}
	return out
}

func (g *Generator) nextStep() time.Duration {
	s := g.settings
	jitter := (g.rng.Float64()*2 - 1) * s.Jitter
	step := time.Duration(float64(s.Interval) * (1 + jitter)).Truncate(time.Second)
	if step < time.Second {
		step = time.Second
	}
	return step
}

func (g *Generator) scaled(n int64, factor float64) int64 {
	if n == 0 || factor <= 0 {
		return 0
	}
	v := float64(n) * factor * (0.8 + 0.4*g.rng.Float64())
	return int64(v)
}

// WriteLog writes samples in the raw counter log format.
func WriteLog(w io.Writer, samples []sample.Sample) error {
	b := bufio.NewWriter(w)
	for _, s := range samples {
		fmt.Fprintf(b, "%s molts=%d likes=%d views=%d\n", s.Timestamp, s.Molts, s.Likes, s.Views)
	}
	return b.Flush()
}
