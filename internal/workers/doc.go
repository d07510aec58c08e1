/*
Package workers sizes the delivery pipeline's worker pool.

In containers the host CPU count seen by runtime.NumCPU() can be far larger
than the CPUs actually granted by cgroup limits. Go 1.19+ sets GOMAXPROCS from
the container limit, so all calculations here use runtime.GOMAXPROCS(0).

Basic usage:

	// CPU-intensive work (image decode, resize, encode)
	n := workers.ForCPU(8) // max 8 workers

	// Honor an explicit user request, auto-size when zero
	n := workers.Resolve(cfg.Workers)

All functions respect the PHOTOPACK_WORKERS environment variable, which lets
operators override the automatic calculation:

	PHOTOPACK_WORKERS=4 photopack ...

Every function is safe for concurrent use.
*/
package workers
