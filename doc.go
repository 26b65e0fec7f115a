/*
Package xmlinput is a set of line-oriented, XML-flavored input libraries.

It reads text a block at a time from a pluggable source into a growable
scratch buffer, splits it into logical lines under strict buffer-lifecycle
invariants (in-place null termination, compaction, growth, pushback), and
classifies each line as plain text or markup. A small scanf-flavored
pattern matcher queries the classified lines for tag names and attribute
values without allocating a DOM.

The design favors configuration and log data that is line-oriented and
easy to read, edit, and grep: each line stands alone, and "leaf" data is
either plain text or a single self-contained element like
<tag attr='payload'/>. This is not a general purpose XML parser — there
is no DTD, namespace, CDATA, comment, or multi-line element support. See
the xmlscan sub-package for the accepted subset.

See the line sub-package for the BlockSource/Reader buffer lifecycle, and
the pattern sub-package for the element scan format language.
*/
package xmlinput
