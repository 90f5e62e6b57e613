package rtutil

import (
	"fmt"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/pkg/errors"
)

func TestRunPanicless(t *testing.T) {
	assert.T(t, RunPanicless(func() {
		panic(1)
	}), "should report panic")
	assert.T(t, RunPanicless(func() {
		panic(fmt.Errorf("bad"))
	}), "should report panic")
	assert.T(t, !RunPanicless(func() {}), "should not report panic")
}

func TestCatchPanic(t *testing.T) {
	sentinel := fmt.Errorf("sentinel")
	err := CatchPanic(func() {
		panic(sentinel)
	})
	assert.Equal(t, sentinel, errors.Cause(err))

	err = CatchPanic(func() {
		panic("text")
	})
	assert.T(t, err != nil, "should convert panic")
	assert.Equal(t, nil, CatchPanic(func() {}))
}
