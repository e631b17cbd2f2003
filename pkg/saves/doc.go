// Package saves stores manual category trees between editing sessions.
//
// # Overview
//
// A save is one tree in the format of package io, addressed by an opaque
// ID. Saves are listed by their table title, loaded for rendering, and
// overwritten as the tree evolves. Every overwrite first keeps a copy of
// the previous content as a backup, so an earlier state can be restored.
//
// # Backends
//
//   - [FileStore]: one gzip file per save under a directory, backups under
//     backups/<id>/. Used by the CLI by default.
//   - [MongoStore]: one document per save, backups in a sibling collection.
//     Used when a MongoDB URI is configured.
//
// # Backups
//
// Before a save is overwritten its current content is copied to a new
// backup, unless that content is identical to the newest backup. At most
// MaxBackups backups are kept per save; older ones are removed. Backups are
// listed newest first.
//
// # IDs
//
// [NewID] returns a random UUID. Stores accept any ID that passes
// [ValidateID], so IDs can also be chosen by hand (e.g. "combat-arts").
package saves
