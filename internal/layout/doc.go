// Package layout holds the geometry value types used by the windowing engine.
//
// Rectangles, edge insets and sizes are plain integer values with a few
// arithmetic helpers. Types are re-exported through the root virtual package
// for public consumption.
package layout
