// Package source turns CLI arguments into HTML documents.
//
// Arguments may be files, directories (walked with fastwalk for .html,
// .htm, .xhtml and .shtml files, optionally .gz or .zst compressed),
// doublestar globs such as "site/**/*.html", or "-" for stdin. Bytes are
// decompressed with klauspost/compress, sniffed with mimetype when the
// extension is not HTML, and decoded to UTF-8.
package source
