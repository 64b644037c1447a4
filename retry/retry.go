package retry

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Do runs cmd once per entry of the timeout schedule until it succeeds.
// Every attempt gets the timeout of its schedule slot, so probes can start
// patient and get more impatient on later tries. cleaner runs between
// failed attempts.
func Do(cmd Attempt, cleaner Cleaner, cnf *Config, label ...string) error {
	msg := ""
	if len(label) > 0 {
		msg = label[0] + ": "
	}
	var lastErr error
	for i, timeout := range cnf.Timeouts {
		if err := cmd(i, timeout); err != nil {
			lastErr = err
			if cleaner != nil {
				if cErr := cleaner(err, i); cErr != nil {
					return errors.Wrap(
						cErr,
						msg+"original err: "+err.Error()+"failed to clean between retries",
					)
				}
			}
			if cnf.Wait > 0 {
				time.Sleep(cnf.Wait)
			}
			continue
		}
		return nil
	}
	if lastErr != nil {
		return errors.Wrap(lastErr, msg+"command failed after "+strconv.Itoa(len(cnf.Timeouts))+" attempts")
	}
	return errors.Errorf(msg+"command failed after %d attempts", len(cnf.Timeouts))
}

// Attempt func to execute. It receives the attempt index and the timeout
// budget of this attempt.
type Attempt func(int, time.Duration) error

// Cleaner func is executed between attempts if an Attempt failed with error.
type Cleaner func(error, int) error

// Config of the retry action.
type Config struct {
	// Timeouts holds the per-attempt timeout budgets, its length is the
	// number of attempts.
	Timeouts []time.Duration

	// Wait is the wait time between attempts.
	Wait time.Duration
}

// Seconds returns the total time budget of the schedule.
func (c *Config) Seconds() int {
	total := time.Duration(0)
	for _, timeout := range c.Timeouts {
		total += timeout
	}
	total += time.Duration(len(c.Timeouts)-1) * c.Wait
	return int(total.Seconds())
}

// EmptyCleaner is a Cleaner that always returns nil.
func EmptyCleaner(_ error, _ int) error { return nil }
