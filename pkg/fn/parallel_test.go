package fn

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestParMapResultOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1}
	results := ParMapResult(items, 2, func(v int) Result[int] {
		time.Sleep(time.Duration(v) * time.Millisecond)
		return Ok(v * 10)
	})
	for i, r := range results {
		if v := r.Must(); v != items[i]*10 {
			t.Errorf("results[%d] = %d, want %d", i, v, items[i]*10)
		}
	}
}

func TestParMapResultBoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	ParMapResult(make([]int, 20), 3, func(int) Result[int] {
		cur := active.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return Ok(0)
	})
	if p := peak.Load(); p > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", p)
	}
}

func TestParMapResultEmpty(t *testing.T) {
	if got := ParMapResult(nil, 4, func(int) Result[int] { return Ok(1) }); len(got) != 0 {
		t.Errorf("got %d results for empty input", len(got))
	}
}

func TestFanOutResult(t *testing.T) {
	r := FanOutResult(
		func() Result[string] { return Ok("a") },
		func() Result[string] { return Ok("b") },
	)
	vs, err := r.Unwrap()
	if err != nil || len(vs) != 2 || vs[0] != "a" || vs[1] != "b" {
		t.Errorf("FanOutResult = %v, %v", vs, err)
	}

	boom := errors.New("boom")
	r = FanOutResult(
		func() Result[string] { return Ok("a") },
		func() Result[string] { return Err[string](boom) },
	)
	if _, err := r.Unwrap(); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestRetryEventualSuccess(t *testing.T) {
	attempts := 0
	opts := RetryOpts{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	r := Retry(context.Background(), opts, func(context.Context) Result[int] {
		attempts++
		if attempts < 3 {
			return Errf[int]("attempt %d failed", attempts)
		}
		return Ok(attempts)
	})
	if v := r.Must(); v != 3 {
		t.Errorf("Retry = %d, want success on attempt 3", v)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	attempts := 0
	opts := RetryOpts{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	r := Retry(context.Background(), opts, func(context.Context) Result[int] {
		attempts++
		return Errf[int]("always failing")
	})
	if r.IsOk() || attempts != 2 {
		t.Errorf("attempts = %d, ok = %v", attempts, r.IsOk())
	}
}

func TestRetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := RetryOpts{MaxAttempts: 5, InitialWait: time.Minute, MaxWait: time.Minute}
	r := Retry(ctx, opts, func(context.Context) Result[int] {
		return Errf[int]("failing")
	})
	if _, err := r.Unwrap(); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
