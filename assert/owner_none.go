//go:build !assertions

package assert

// Enabled is true if the package was built with the assertions tag.
const Enabled = false

// Owner does nothing unless the package is built with the assertions tag.
type Owner struct{}

// Claim does nothing unless the package is built with the assertions tag.
func (o *Owner) Claim() {}

// Check does nothing unless the package is built with the assertions tag.
func (o *Owner) Check(_ string) {}
