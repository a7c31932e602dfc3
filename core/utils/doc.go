// Package utils provides small conversion helpers shared by the chapter providers,
// mostly lenient number parsing of source-supplied strings.
package utils
