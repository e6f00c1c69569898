package kvdb

import "github.com/VictoriaMetrics/metrics"

// Per-facade operation counters. Each DB owns its own set so that two
// facades over the same environment can be observed independently.
type dbMetrics struct {
	set *metrics.Set

	reads    *metrics.Counter
	readHits *metrics.Counter
	puts     *metrics.Counter
	deletes  *metrics.Counter
	commits  *metrics.Counter
	iters    *metrics.Counter
}

func newDBMetrics() *dbMetrics {
	s := metrics.NewSet()
	return &dbMetrics{
		set:      s,
		reads:    s.NewCounter("kvdb_reads_total"),
		readHits: s.NewCounter("kvdb_read_hits_total"),
		puts:     s.NewCounter("kvdb_puts_total"),
		deletes:  s.NewCounter("kvdb_deletes_total"),
		commits:  s.NewCounter("kvdb_commits_total"),
		iters:    s.NewCounter("kvdb_iterators_total"),
	}
}
