//go:build assertions

package assert

import (
	"fmt"
	"sync/atomic"
)

// Enabled is true if the package was built with the assertions tag.
const Enabled = true

// Owner records the goroutine that first claims it. The zero value is ready
// to use.
type Owner struct {
	id atomic.Uint64
}

// Claim makes the calling goroutine the owner. Any previous owner is
// forgotten.
func (o *Owner) Claim() {
	o.id.Store(GoroutineID())
}

// Check panics if the calling goroutine is not the owner. If there is no
// owner then the calling goroutine becomes the owner.
func (o *Owner) Check(what string) {
	id := GoroutineID()
	if o.id.CompareAndSwap(0, id) {
		return
	}
	if owner := o.id.Load(); owner != id {
		panic(fmt.Sprintf("assert: %s called from goroutine %d but owned by goroutine %d", what, id, owner))
	}
}
