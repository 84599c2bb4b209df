// Package scan enumerates the audio files a conversion run will touch.
//
// Files walks a root directory recursively and returns every regular file
// whose extension matches the source format, ignoring case, as sorted
// absolute paths. A missing root or a root that is not a directory is
// reported through a *RootError wrapping ErrDirectoryNotFound or
// ErrNotADirectory; no partial scan is ever returned.
package scan
