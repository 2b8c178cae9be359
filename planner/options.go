package planner

// Options are the construction-time planner knobs from spec.md §6.
// Construct replaces a zero Options value (one not built by
// DefaultOptions or BuildOptions) with DefaultOptions().
type Options struct {
	// Reorder stamps pencil layouts with the axis order that puts
	// each stage's FFT axis fastest in memory. Default: true.
	Reorder bool
	// UsePencils records the pencil-pipelined transport preference.
	// Default: true. Neither the planner nor the pipeline driver reads
	// it; the reshape transport is the reshape.Strategy given to
	// pipeline.New (heffte.Config.Strategy).
	UsePencils bool
	// UseGPUAware records the device-pointer transport preference.
	// Default: true. No code in this module reads it; all buffers are
	// host memory.
	UseGPUAware bool
	// UseSubcomm records the per-stage subgroup preference. Default:
	// false. No reshape stage reads it; every stage communicates over
	// the plan's full group.
	UseSubcomm bool

	set bool // internal: true for values built by DefaultOptions
}

// DefaultOptions returns the spec-mandated default option set.
func DefaultOptions() Options {
	return Options{Reorder: true, UsePencils: true, UseGPUAware: true, UseSubcomm: false, set: true}
}

// Opt is a functional option for Options.
type Opt func(*Options)

// WithReorder overrides the Reorder default.
func WithReorder(v bool) Opt { return func(o *Options) { o.Reorder = v } }

// WithPencils overrides the UsePencils default.
func WithPencils(v bool) Opt { return func(o *Options) { o.UsePencils = v } }

// WithGPUAware overrides the UseGPUAware default.
func WithGPUAware(v bool) Opt { return func(o *Options) { o.UseGPUAware = v } }

// WithSubcomm overrides the UseSubcomm default.
func WithSubcomm(v bool) Opt { return func(o *Options) { o.UseSubcomm = v } }

// BuildOptions applies opts over DefaultOptions, in the teacher's
// flag-driven Config style (xtaci/kcptun/client/config.go): defaults
// first, then overrides.
func BuildOptions(opts ...Opt) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
