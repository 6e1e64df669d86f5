//go:build statsview

package statsview

import (
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Enabled reports whether this build can serve graphs.
const Enabled = true

var once sync.Once

// Start serves the graphs on addr in the background and returns the
// dashboard URL. Only the first call starts a server.
func Start(addr string) string {
	if addr == "" {
		addr = DefaultAddr
	}
	once.Do(func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		go statsview.New().Start()
	})
	return dashboardURL(addr)
}
