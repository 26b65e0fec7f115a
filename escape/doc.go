/*
Package escape implements the "Special Six" XML entity codec shared by
package xmlscan (decoding TEXT lines and attribute values) and by
xmlscan.Scanner.WriteTo (re-encoding a classified line for diagnostic
output).

Only six entities are recognized in either direction: &amp; &lt; &gt;
&quot; &apos; &#10;, decoding to & < > " ' and a literal newline
respectively. This is deliberately not a general XML/HTML entity
decoder: numeric references other than &#10; and named entities other
than the six above are left untouched, exactly as in the original
encoding this package is modeled on.
*/
package escape
