package logger

import "testing"

func TestNew(t *testing.T) {
	for _, dev := range []bool{false, true} {
		l, err := New(dev)
		if err != nil {
			t.Fatalf("New(%v) error = %v", dev, err)
		}
		if l == nil {
			t.Fatalf("New(%v) returned nil logger", dev)
		}
	}
}

func TestNamed_NilBase(t *testing.T) {
	if l := Named(nil, "svc.test"); l == nil {
		t.Fatal("Named(nil) should return a nop logger")
	}
}

func TestMust_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(nil, errTest)
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
