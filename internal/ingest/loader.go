package ingest

import (
	"context"

	"github.com/viant/afs"

	"github.com/netlist-paths/netlistpaths/internal/nlerr"
)

// LoadAndIngest reads the Verilator-XML document at path (a local path or
// any URL afs understands) and builds the graph described in spec §4.2. It
// is the entrypoint the netlist facade and the watch-mode reloader both call.
func LoadAndIngest(ctx context.Context, path string) (*Result, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, nlerr.Wrap(nlerr.Malformed, "could not read netlist XML file "+path, err)
	}
	if len(data) == 0 {
		return nil, nlerr.Newf(nlerr.Malformed, "netlist XML file %s is empty or missing", path)
	}
	return Ingest(data)
}
