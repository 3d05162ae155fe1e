// Package ingestion embeds whole corpora and catalogs in parallel batches.
//
// The Pipeline splits its input into contiguous batches, embeds each batch
// through a Vectorizer on a bounded ants worker pool and reassembles the
// vectors in input order. Before any remote call it estimates the token count
// and cost of the run; the estimate is logged and reported to an optional
// hook but never blocks the run.
//
// A failed batch fails the whole call. No partial results are returned.
package ingestion
