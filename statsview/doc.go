// Package statsview optionally serves live runtime graphs (heap, goroutines,
// GC pauses) for profiling the capture and simulation goroutines. The
// server is only compiled in with the statsview build tag:
//
//	go build -tags statsview
//
// Without the tag Start does nothing and Enabled is false.
package statsview

// DefaultAddr is used when Start is given an empty address.
const DefaultAddr = "localhost:12600"

// dashboardPath is where the graphs are mounted on the server.
const dashboardPath = "/debug/statsview"

func dashboardURL(addr string) string {
	if addr == "" {
		addr = DefaultAddr
	}
	return "http://" + addr + dashboardPath
}
