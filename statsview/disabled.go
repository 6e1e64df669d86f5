//go:build !statsview

package statsview

// Enabled reports whether this build can serve graphs.
const Enabled = false

// Start does nothing without the statsview build tag and returns "".
func Start(addr string) string {
	return ""
}
