// Package ingestion bootstraps a vector index from a document corpus.
//
// The Bootstrapper runs a fixed sequence of steps:
//   - Ensure the target index exists and skip the run if it already holds vectors
//   - Load documents, drop invalid ones, enrich the rest with side metadata
//   - Split documents into chunks and process them in sequential batches
//
// Each batch is embedded with one provider call and written to the index in
// sub-batches. A failing batch is logged and skipped; it never aborts the run.
// Failures before the batch loop abort the run and are returned to the caller,
// which can map them to an outcome with Classify.
package ingestion
