package sender

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"alerta/snmptrap/logger"
)

const defaultMaxDuration = 1 * time.Minute

// Retry runs a function until it succeeds, waiting a fibonacci growing delay
// between attempts. It gives up after maxCount attempts or once maxDuration
// has gone by.
type Retry struct {
	currentCount      int
	maxCount          int
	retryStarted      bool
	maxDuration       time.Duration
	retryDuration     time.Duration
	prevRetryDuration time.Duration
	logger            logger.Logger
}

func NewRetryModule(retryStartDuration time.Duration, lg logger.Logger) *Retry {
	return &Retry{
		maxCount:          -1,
		maxDuration:       defaultMaxDuration,
		retryDuration:     retryStartDuration,
		prevRetryDuration: retryStartDuration,
		logger:            lg,
	}
}

func (r *Retry) SetMaxDuration(maxDuration time.Duration) error {
	if r.retryStarted {
		return errors.New("retry has already started")
	}
	if maxDuration <= 0 {
		return errors.Errorf("invalid max duration %v", maxDuration)
	}
	r.maxDuration = maxDuration
	return nil
}

func (r *Retry) SetMaxCount(maxCount int) error {
	if r.retryStarted {
		return errors.New("retry has already started")
	}
	if maxCount <= 0 {
		return errors.Errorf("invalid max count %d", maxCount)
	}
	r.maxCount = maxCount
	return nil
}

// Execute calls fn until it returns nil and returns the last error otherwise.
func (r *Retry) Execute(fn func() error) error {
	return r.ExecuteContext(context.Background(), fn)
}

// ExecuteContext is Execute that also stops, without waiting, once ctx is done.
func (r *Retry) ExecuteContext(ctx context.Context, fn func() error) error {
	r.retryStarted = true
	end := time.Now().Add(r.maxDuration)
	var err error
	for {
		if cerr := ctx.Err(); cerr != nil {
			if err == nil {
				return cerr
			}
			return errors.Wrapf(err, "giving up: %v", cerr)
		}
		if err = fn(); err == nil {
			return nil
		}
		r.currentCount++
		if r.maxCount > 0 && r.currentCount >= r.maxCount {
			return errors.Wrapf(err, "giving up after %d attempts", r.currentCount)
		}
		if time.Now().Add(r.retryDuration).After(end) {
			return errors.Wrapf(err, "giving up after %v", r.maxDuration)
		}
		r.logger.Debug(fmt.Sprintf("attempt %d failed: %v, retrying in %v", r.currentCount, err, r.retryDuration))
		timer := time.NewTimer(r.retryDuration)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
			r.computeNextRetryTime()
		}
	}
}

// using fibonacci algorithm to compute the next run time
func (r *Retry) computeNextRetryTime() {
	nextDuration := r.retryDuration + r.prevRetryDuration
	r.prevRetryDuration = r.retryDuration
	r.retryDuration = nextDuration
}
