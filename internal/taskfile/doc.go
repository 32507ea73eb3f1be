// Package taskfile reads and writes the plain-text task file.
//
// The format is one task per line, in list order:
//
//	Buy milk
//	Walk dog
//
// Every line, including the last, is terminated by "\n". There is no
// header, no count and no escaping. An empty list is stored as a zero-byte
// file.
//
// # Reading
//
//   - Lines are split on "\n"; a trailing "\r" is dropped with the rest of
//     the trailing whitespace.
//   - A file that ends with "\n" does not produce an empty trailing task.
//   - Empty lines in the middle of the file are kept as empty tasks.
//
// # Writing
//
// Write always rewrites the whole file. The new content goes to a temporary
// file in the same directory which is then renamed over the target, so a
// crash leaves either the old or the new list on disk. When the path is a
// symlink the link target is replaced and the link is left alone. An
// existing file keeps its permission bits.
package taskfile
