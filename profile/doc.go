// Package profile runs optional pprof profiling for tgen.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
// With it, [github.com/pkg/profile] writes one profile per run into the
// configured directory, and the [net/http/pprof] handlers are registered on
// the default mux.
//
//	stop := profile.Make(
//		profile.WithMode("cpu"),
//		profile.WithPath(dir),
//	).Start()
//	defer stop.Stop()
//
// Rendering a large model under the cpu or allocs mode shows where the
// evaluator spends its time:
//
//	tgen --pprof-mode cpu render --tree page.tree.yaml --template page.tmpl \
//		--model site.yaml
//	go tool pprof -http=: ~/.cache/tgen/pprof/cpu.pprof
package profile

// Tag is the build tag that enables profiling.
const Tag = `pprof`
