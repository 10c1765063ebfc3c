package domain

// Config is the process-wide pipeline configuration. It is read-only after
// load; the loader hands it to the app, which passes it explicitly into the
// builder and the scheduler.
type Config struct {
	Version string
	// Dir is the directory containing the configuration file. Relative
	// sample table and output paths are resolved against it.
	Dir     string
	Samples SampleSpec
	// Output is the resolved output root directory.
	Output string
	// Threads is the total concurrency budget of a run.
	Threads int
	Params  map[string]string
	Catalog *Catalog
}
