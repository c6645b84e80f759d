// Package types defines the shared data model for cosmofeed search:
// content types, locales, queries, scored results, and the response
// shape returned to every serving surface.
package types
