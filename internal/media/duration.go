package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"
)

// DefaultMaxVideoSeconds is the longest video accepted when no limit is configured.
const DefaultMaxVideoSeconds = 30

// DurationProbe reads the duration, in seconds, of a video container.
type DurationProbe interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// FFProbe reads durations by running the ffprobe binary. The subprocess is bound to
// the caller's context and is killed and reaped when the context ends.
type FFProbe struct {
	Bin string
}

// NewFFProbe returns a probe using bin, or "ffprobe" from PATH when bin is empty.
func NewFFProbe(bin string) *FFProbe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFProbe{Bin: bin}
}

var _ DurationProbe = (*FFProbe)(nil)

func (p *FFProbe) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.Bin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return 0, fmt.Errorf("ffprobe: %s", exitErr.Stderr)
		}
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbeOutput(out)
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbeOutput(b []byte) (float64, error) {
	var out probeOutput
	if err := json.Unmarshal(b, &out); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if out.Format.Duration == "" {
		return 0, errors.New("ffprobe reported no duration")
	}
	d, err := strconv.ParseFloat(out.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out.Format.Duration, err)
	}
	return d, nil
}

// ValidateDuration probes the staged video at path under a bounded timeout and
// enforces maxSeconds (DefaultMaxVideoSeconds when <= 0). It returns the duration.
func ValidateDuration(ctx context.Context, probe DurationProbe, path string, maxSeconds float64, timeout time.Duration) (float64, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if maxSeconds <= 0 {
		maxSeconds = DefaultMaxVideoSeconds
	}

	d, err := probe.Duration(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidMedia, err)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return 0, fmt.Errorf("%w: duration %v", ErrInvalidMedia, d)
	}
	if d > maxSeconds {
		return d, fmt.Errorf("%w: %.1fs is longer than %gs", ErrDurationExceeded, d, maxSeconds)
	}
	return d, nil
}
