// Package snapshot captures host trees so a rendered application can be
// saved, inspected and restored.
//
// A Snapshot is a plain tree of Nodes. It can be rendered to HTML, encoded
// with MessagePack, and kept in a Store: FileStore writes to a directory,
// S3Store writes to an S3 bucket.
//
//	snap := snapshot.Capture("Counter", mem.Body())
//	data, err := snapshot.EncodeMsgpack(snap)
//	...
//	err = store.Put(ctx, "counter.mp", data)
package snapshot
