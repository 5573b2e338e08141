// Package server exposes bootstrap runs over HTTP using gin.
//
// Two endpoints trigger a run: POST /api/bootstrap uses the configured index,
// POST /api/ingest takes {"targetIndex": "..."} in the body. Runs are detached
// from the request context so a client disconnect does not interrupt them.
package server
