// Package host defines the boundary between the renderer and the live
// element tree it projects virtual nodes onto.
//
// The renderer never touches a concrete UI surface; it drives an [Adapter]
// injected at construction. Two implementations ship with the package:
//
//   - [Memory] keeps an in-memory element tree. It backs tests, the CLI demo
//     and the live server, which streams the tree's mutations to browsers.
//   - [Recorder] decorates any adapter and logs every mutation as an [Op],
//     which is how tests assert "no host mutations" and how op streams are
//     produced.
//
// Handles are opaque to the renderer but must be comparable: the renderer
// keys per-element bookkeeping by handle.
package host
