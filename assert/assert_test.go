package assert_test

import (
	"sync"
	"testing"

	"github.com/jetsetilly/rerecord/assert"
	"github.com/jetsetilly/rerecord/test"
)

func TestGoroutineID(t *testing.T) {
	id := assert.GoroutineID()
	test.ExpectInequality(t, id, uint64(0))
	test.ExpectEquality(t, assert.GoroutineID(), id)

	var other uint64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		other = assert.GoroutineID()
	}()
	wg.Wait()

	test.ExpectInequality(t, other, uint64(0))
	test.ExpectInequality(t, other, id)
}

func TestOwner(t *testing.T) {
	var o assert.Owner
	o.Check("first")
	o.Check("second")

	var panicked bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			panicked = recover() != nil
		}()
		o.Check("other goroutine")
	}()
	wg.Wait()

	test.ExpectEquality(t, panicked, assert.Enabled)

	// claiming from another goroutine moves the ownership
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.Claim()
	}()
	wg.Wait()

	panicked = false
	func() {
		defer func() {
			panicked = recover() != nil
		}()
		o.Check("after claim")
	}()
	test.ExpectEquality(t, panicked, assert.Enabled)
}
