// Package render loads pages in a headless browser and hands the core
// everything it observed: the rendered DOM, the JSON-LD blocks, and the
// anchors as they exist after JavaScript ran.
//
// The Renderer interface is the seam between the audit core and the
// browser. The core never touches Chrome directly, which keeps the
// crawler and extractor testable with a stub renderer.
package render
