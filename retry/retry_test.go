package retry

import (
	"errors"
	"testing"
	"time"
)

func TestDoSchedule(t *testing.T) {
	cnf := &Config{Timeouts: []time.Duration{5 * time.Second, 3 * time.Second}}

	t.Run("first attempt succeeds", func(t *testing.T) {
		calls := 0
		err := Do(func(i int, timeout time.Duration) error {
			calls++
			if timeout != 5*time.Second {
				t.Errorf("attempt %d got timeout %s, want 5s", i, timeout)
			}
			return nil
		}, nil, cnf)
		if err != nil {
			t.Errorf("unexpected error: %s", err.Error())
		}
		if calls != 1 {
			t.Errorf("expected 1 attempt, got %d", calls)
		}
	})

	t.Run("second attempt gets second timeout", func(t *testing.T) {
		var timeouts []time.Duration
		err := Do(func(i int, timeout time.Duration) error {
			timeouts = append(timeouts, timeout)
			if i == 0 {
				return errors.New("first fail")
			}
			return nil
		}, nil, cnf)
		if err != nil {
			t.Errorf("unexpected error: %s", err.Error())
		}
		if len(timeouts) != 2 || timeouts[0] != 5*time.Second || timeouts[1] != 3*time.Second {
			t.Errorf("wrong timeout schedule: %v", timeouts)
		}
	})

	t.Run("all attempts fail", func(t *testing.T) {
		calls := 0
		err := Do(func(_ int, _ time.Duration) error {
			calls++
			return errors.New("down")
		}, nil, cnf, "https://om.example.com")
		if err == nil {
			t.Error("expected an error")
		}
		if calls != len(cnf.Timeouts) {
			t.Errorf("expected %d attempts, got %d", len(cnf.Timeouts), calls)
		}
	})

	t.Run("cleaner failure aborts", func(t *testing.T) {
		calls := 0
		err := Do(func(_ int, _ time.Duration) error {
			calls++
			return errors.New("down")
		}, func(_ error, _ int) error {
			return errors.New("cleanup broken")
		}, cnf)
		if err == nil {
			t.Error("expected an error")
		}
		if calls != 1 {
			t.Errorf("expected 1 attempt, got %d", calls)
		}
	})

	t.Run("empty cleaner keeps retrying", func(t *testing.T) {
		calls := 0
		_ = Do(func(_ int, _ time.Duration) error {
			calls++
			return errors.New("down")
		}, EmptyCleaner, cnf)
		if calls != len(cnf.Timeouts) {
			t.Errorf("expected %d attempts, got %d", len(cnf.Timeouts), calls)
		}
	})
}

func TestSeconds(t *testing.T) {
	cnf := &Config{
		Timeouts: []time.Duration{5 * time.Second, 3 * time.Second},
		Wait:     time.Second,
	}
	if got := cnf.Seconds(); got != 9 {
		t.Errorf("Seconds() = %d, want 9", got)
	}
}
