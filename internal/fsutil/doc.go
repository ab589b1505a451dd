// Package fsutil provides the file system operations of a build: writing
// output files, copying the asset tree and listing directories to watch.
package fsutil
