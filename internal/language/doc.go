// Package language normalizes language identifiers. Config accepts codes
// ("en", "eng") or names ("english"); the speech engines want the ISO 639-1
// form, and status output wants a display name. Both conversions live here.
package language
