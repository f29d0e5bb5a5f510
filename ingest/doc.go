// Package ingest loads question/answer pairs into the corpus, embeds them
// in concurrent batches, and exports the serving artifacts.
//
// Ingestion and export are offline operations: the serving process never
// imports this package. Artifacts are published atomically so a serving
// store reloading mid-export never observes a torn file.
package ingest
