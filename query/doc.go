/*
Package query assembles a stream of xmlscan-classified lines into an
antchfx/xmlquery node tree, so a caller who wants ordinary XPath
lookups instead of the line-oriented scanner/pattern API can have
them. It sits strictly downstream of xmlscan: Build consumes a
*xmlscan.Scanner positioned on a HEAD or ELEM line (a TEXT line is
rejected) and walks forward until the run of markup opened there
closes, turning each ELEM/HEAD/TAIL/TEXT line into the obvious node.

This package is an optional convenience layer. Nothing in block,
line, xmlscan, or pattern imports it, and nothing it does changes the
classifier or matcher's behavior; it only reads from them.
*/
package query
