package eventloop

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestDeferOrder(t *testing.T) {
	l := New()
	var got []int
	l.Defer(func() error {
		got = append(got, 1)
		l.Defer(func() error {
			got = append(got, 3)
			return nil
		})
		return nil
	})
	l.Defer(func() error {
		got = append(got, 2)
		return nil
	})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}
	if !l.Idle() {
		t.Errorf("expected loop to be idle")
	}
}

func TestGoPostsContinuation(t *testing.T) {
	l := New()
	var result string
	l.Go(func() error {
		time.Sleep(5 * time.Millisecond)
		return errors.New("disk full")
	}, func(err error) error {
		result = err.Error()
		return nil
	})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != "disk full" {
		t.Errorf("expected continuation to see work error, got %q", result)
	}
}

func TestTimersFireByDeadline(t *testing.T) {
	l := New()
	var got []string
	l.After(20*time.Millisecond, func() error {
		got = append(got, "late")
		return nil
	})
	l.After(time.Millisecond, func() error {
		got = append(got, "early")
		return nil
	})
	l.After(0, func() error {
		got = append(got, "now")
		return nil
	})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"now", "early", "late"}) {
		t.Errorf("unexpected order %v", got)
	}
}

func TestTaskErrorAborts(t *testing.T) {
	l := New()
	boom := errors.New("boom")
	ran := false
	l.Defer(func() error { return boom })
	l.Defer(func() error {
		ran = true
		return nil
	})

	if err := l.Run(context.Background()); err != boom {
		t.Fatalf("expected boom, got %v", err)
	}
	if ran {
		t.Errorf("task after the failing one should not run")
	}
}

func TestRunUntilNested(t *testing.T) {
	l := New()
	count := 0
	var order []string
	l.Defer(func() error {
		for i := 0; i < 3; i++ {
			l.Defer(func() error {
				count++
				return nil
			})
		}
		l.Defer(func() error {
			order = append(order, "after")
			return nil
		})
		if err := l.RunUntil(context.Background(), func() bool { return count == 3 }); err != nil {
			return err
		}
		order = append(order, "nested done")
		return nil
	})

	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(order, []string{"nested done", "after"}) {
		t.Errorf("unexpected order %v", order)
	}
}

func TestRunHonorsContext(t *testing.T) {
	l := New()
	l.After(time.Hour, func() error { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
