// Package extract turns a rendered page into an audit record.
//
// The extractor consumes what the renderer observed (serialized DOM,
// JSON-LD blocks, anchors) and produces a model.Page with every signal
// the scorer and the report need. Extraction is total: missing tags
// yield empty fields, never errors, so one broken page cannot abort a
// site audit.
package extract
