// Package pipeline runs one generation: fragments, reference page, corpus
// extraction, call-site inference, exposure resolution, fragment export and
// declaration emission.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/chemodun/X4-LuaLSAddonPrep/internal/catalog"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/config"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/discover"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/extract"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/fragment"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/infer"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/luals"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/scrub"
	"github.com/chemodun/X4-LuaLSAddonPrep/internal/wiki"
)

// sourceCacheSize bounds the scrubbed sources kept between the extraction
// pass and the inference pass. Evicted files are read again.
const sourceCacheSize = 1024

var (
	_ extract.Sink = (*catalog.Catalog)(nil)
	_ infer.Filter = (*catalog.Catalog)(nil)
)

// Options selects what a run produces.
type Options struct {
	UseFragments       bool
	SkipFragmentExport bool
	Offline            bool

	Lua          bool
	FFI          bool
	Helper       bool
	Undocumented bool
	Exposed      bool
}

// AllKinds enables every output.
func AllKinds() Options {
	return Options{Lua: true, FFI: true, Helper: true, Undocumented: true, Exposed: true}
}

// Result summarizes a run.
type Result struct {
	Catalog *catalog.Catalog
	Files   int
	Written []string
}

// Runner holds the collaborators of a run.
type Runner struct {
	Config  *config.Config
	Options Options
	Logger  *slog.Logger
	// Client fetches the reference page; nil uses a client built from the
	// configured timeout.
	Client *http.Client

	cache     *lru.Cache[string, *scrub.Source]
	fragments *fragment.Store
}

// Run executes the generation. Only setup failures are returned: a missing
// corpus, no reference data, or output that cannot be written.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if r.Logger == nil {
		r.Logger = slog.New(slog.DiscardHandler)
	}
	cache, err := lru.New[string, *scrub.Source](sourceCacheSize)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	r.fragments = r.fragmentStore()

	cat := catalog.New()
	res := &Result{Catalog: cat}
	opts := r.Options

	if opts.UseFragments {
		r.importFragments(cat)
	}

	if r.needsProcessing(cat) {
		if opts.Lua && cat.Reference.Len() == 0 {
			if err := r.loadReference(ctx, cat); err != nil {
				return nil, err
			}
		}

		root := r.Config.Resolve(r.Config.CorpusPath)
		files, err := discover.Files(root, r.Config.Exclude)
		if err != nil {
			return nil, err
		}
		res.Files = len(files)
		r.Logger.Info("found Lua files", "count", len(files), "root", root)

		for _, rel := range files {
			src, ok := r.source(root, rel)
			if !ok {
				continue
			}
			extract.File(cat, filepath.Base(rel), src)
		}

		if opts.Undocumented {
			r.inferUndocumented(cat, root, files)
		}

		if !opts.SkipFragmentExport && !opts.UseFragments {
			if err := r.exportFragments(cat); err != nil {
				return nil, err
			}
		}
	}

	written, err := r.emit(cat)
	res.Written = written
	if err != nil {
		return res, err
	}
	r.Logger.Info("generation completed", "files_written", len(written))
	return res, nil
}

func (r *Runner) fragmentStore() *fragment.Store {
	files := make(map[fragment.Kind]string, len(r.Config.FragmentFiles))
	for k, v := range r.Config.FragmentFiles {
		files[fragment.Kind(k)] = v
	}
	return &fragment.Store{
		Dir:    r.Config.Resolve(r.Config.FragmentDir),
		Files:  files,
		Logger: r.Logger,
	}
}

func (r *Runner) importFragments(cat *catalog.Catalog) {
	opts := r.Options
	if opts.Lua {
		for _, fn := range r.fragments.Functions(fragment.Lua) {
			cat.AddReference(fn)
		}
		r.Logger.Info("imported Lua functions", "count", cat.Reference.Len())
	}
	if opts.FFI {
		fns, types := r.fragments.FFI()
		for _, fn := range fns {
			cat.AddFFI(fn)
		}
		for _, t := range types {
			cat.AddType(t)
		}
		r.Logger.Info("imported FFI definitions", "functions", cat.FFI.Len(), "types", cat.Types.Len())
	}
	if opts.Helper {
		for _, fn := range r.fragments.Functions(fragment.Helper) {
			cat.AddHelper(fn)
		}
		r.Logger.Info("imported Helper functions", "count", cat.Helpers.Len())
	}
	if opts.Undocumented {
		for _, fn := range r.fragments.Functions(fragment.Undocumented) {
			cat.Undocumented.Set(fn.Name, fn)
		}
		r.Logger.Info("imported undocumented functions", "count", cat.Undocumented.Len())
	}
	if opts.Exposed {
		for _, e := range r.fragments.Exposures() {
			cat.AddExposure(e)
		}
		r.Logger.Info("imported global access functions", "count", cat.Exposures.Len())
	}
}

// needsProcessing reports whether the corpus must be scanned: some enabled
// kind has no imported records, or undocumented inference is enabled.
func (r *Runner) needsProcessing(cat *catalog.Catalog) bool {
	o := r.Options
	return (o.Lua && cat.Reference.Len() == 0) ||
		(o.FFI && cat.FFI.Len() == 0) ||
		(o.Helper && cat.Helpers.Len() == 0) ||
		o.Undocumented ||
		(o.Exposed && cat.Exposures.Len() == 0)
}

func (r *Runner) loadReference(ctx context.Context, cat *catalog.Catalog) error {
	client := r.Client
	if client == nil {
		client = wiki.NewClient(r.Config.FetchTimeout)
	}
	src := &wiki.Source{
		URL:       r.Config.WikiURL,
		CachePath: r.Config.Resolve(r.Config.WikiHTMLPath),
		Offline:   r.Options.Offline,
		Client:    client,
		Logger:    r.Logger,
	}
	page, err := src.Load(ctx)
	if err != nil {
		return err
	}
	fns, err := wiki.Parse(ctx, page)
	if err != nil {
		return err
	}
	for _, fn := range fns {
		cat.AddReference(fn)
	}
	r.Logger.Info("parsed reference page", "functions", cat.Reference.Len())
	return nil
}

// source returns the scrubbed views of one corpus file, from the cache when
// possible. Unreadable files are logged and skipped.
func (r *Runner) source(root, rel string) (*scrub.Source, bool) {
	if src, ok := r.cache.Get(rel); ok {
		return src, true
	}
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		r.Logger.Warn("skipping file", "file", rel, "error", err)
		return nil, false
	}
	src := scrub.Prepare(string(data))
	r.cache.Add(rel, src)
	return src, true
}

func (r *Runner) inferUndocumented(cat *catalog.Catalog, root string, files []string) {
	r.Logger.Info("analyzing undocumented function calls")
	engine := infer.NewEngine(cat)
	for _, rel := range files {
		src, ok := r.source(root, rel)
		if !ok {
			continue
		}
		engine.Scan(filepath.Base(rel), src)
	}
	for _, fn := range engine.Records() {
		cat.Undocumented.Set(fn.Name, fn)
	}
	r.Logger.Info("found undocumented functions", "count", cat.Undocumented.Len())
}

func (r *Runner) exportFragments(cat *catalog.Catalog) error {
	o := r.Options
	if o.Lua {
		if err := r.fragments.SaveFunctions(fragment.Lua, cat.Reference.Values()); err != nil {
			return err
		}
	}
	if o.FFI {
		if err := r.fragments.SaveFFI(cat.FFI.Values(), cat.Types.Values()); err != nil {
			return err
		}
	}
	if o.Helper {
		if err := r.fragments.SaveFunctions(fragment.Helper, cat.Helpers.Values()); err != nil {
			return err
		}
	}
	if o.Undocumented {
		if err := r.fragments.SaveFunctions(fragment.Undocumented, cat.Undocumented.Values()); err != nil {
			return err
		}
	}
	if o.Exposed {
		if err := r.fragments.SaveExposures(cat.Exposures.Values()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) emit(cat *catalog.Catalog) ([]string, error) {
	o := r.Options
	out := r.Config.OutputFiles
	em := luals.New(r.Config.SingleStringFunctions)

	type file struct {
		name    string
		content string
	}
	var files []file
	if o.Lua {
		files = append(files, file{out.Lua, em.LuaAPI(cat.Reference.Values())})
	}
	if o.FFI {
		ffiNS := r.fragments.Namespace(fragment.FFINamespace)
		cNS := r.fragments.Namespace(fragment.CNamespace)
		files = append(files,
			file{out.FFI, em.FFIAPI(ffiNS, cNS, cat.FFI.Values())},
			file{out.FFITypes, em.FFITypes(cat.Types.Values())},
		)
	}
	if o.Helper {
		files = append(files, file{out.Helper, em.HelperAPI(cat.Helpers.Values())})
	}
	if o.Undocumented {
		files = append(files, file{out.Undocumented, em.UndocumentedAPI(cat.Undocumented.Values())})
	}
	if o.Exposed {
		byNamespace := em.Exposed(cat.ResolveExposures())
		namespaces := make([]string, 0, len(byNamespace))
		for ns := range byNamespace {
			namespaces = append(namespaces, ns)
		}
		slices.Sort(namespaces)
		for _, ns := range namespaces {
			files = append(files, file{out.ExposedPrefix + ns + ".lua", byNamespace[ns]})
		}
	}

	var written []string
	for _, f := range files {
		path := r.Config.Output(f.name)
		if err := writeOutput(path, f.content); err != nil {
			return written, err
		}
		r.Logger.Info("generated annotations", "path", path)
		written = append(written, path)
	}
	return written, nil
}

func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
