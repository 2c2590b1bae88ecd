// Package pkg provides the libraries behind graphviewer.
//
// # Overview
//
// Graphviewer adapts plain graphs (JSON node and edge records) to a visual
// model of positioned, label-sized nodes and edges between them, and back.
// The pkg directory is organized into three areas:
//
//  1. Conversion - [plain], [visual], [convert] and [load]
//  2. Component - [viewer] and [plugin]
//  3. Outer surfaces - [render], [pipeline], [cache], [server], [watch] and [config]
//
// # Architecture
//
// The typical data flow:
//
//	plain graph JSON
//	         ↓
//	    [plain] package (decode records)
//	         ↓
//	    [load] package (nodes first, then edges through an id index)
//	         ↓
//	    [visual] model (nodes with geometry, edges with endpoints)
//	         ↓
//	    [render] package (SVG, DOT, Graphviz SVG, PDF, PNG) or [convert.ToPlain]
//
// # Quick Start
//
//	g, _ := plain.ReadGraphFile("graph.json")
//
//	m := visual.NewMemory()
//	res, _ := load.Load(g, m)
//	fmt.Println(res.Nodes, res.Edges, len(res.Skipped))
//
//	var buf bytes.Buffer
//	_ = render.SVG(m, &buf, render.Options{})
//
// # Main Packages
//
// [plain] - Plain records and graphs, JSON encoding, dotted property paths
// and the raw property setter.
//
// [visual] - The model interface, an in-memory implementation on gonum's
// multigraph, geometry helpers and font-based label measurement.
//
// [convert] - Node and edge creation, label fitting, edge tags and the
// conversion of visual items back to plain records.
//
// [load] - Bulk loading of a plain graph into a model. Edges that cannot be
// resolved are skipped and reported.
//
// [viewer] - The GraphViewer component: one model behind a mutex.
//
// [plugin] - Host registration of the GraphViewer component and the
// converter utility surface.
//
// [pipeline] - Read, load and render with artifact caching. Shared by the
// CLI and the HTTP API.
//
// [cache] - File, Redis, MongoDB and no-op cache backends.
//
// [server] - HTTP API over live viewers.
//
// [watch] - Debounced file watching for re-rendering.
//
// [config] - Layered configuration from defaults, a TOML file, environment
// variables and flags.
//
// [errors] - Error codes shared by every package.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/convert/...            # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	REDIS_URL=redis://localhost:6379 go test ./pkg/cache/...
//
// [plain]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/plain
// [visual]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/visual
// [convert]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/convert
// [convert.ToPlain]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/convert#ToPlain
// [load]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/load
// [viewer]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/viewer
// [plugin]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/plugin
// [render]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/cache
// [server]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/server
// [watch]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/watch
// [config]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphviewer/pkg/errors
package pkg
