// Package virtual renders a visible slice of a large ordered collection
// inside a scrollable container.
//
// A Registry owns one Engine per Container. On every scroll, resize or data
// update the engine decides which items need real elements, positions every
// item (rendered or not) from measured or estimated sizes, and nudges the
// scroll offset so an anchored item stays put while sizes are discovered.
//
// The host UI framework is reached only through the Container and Element
// interfaces; MockContainer is an in-memory host for tests and tooling.
package virtual
