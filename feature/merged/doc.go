// Package merged is the secondary chapter source linked to a manga through its
// merged URL. The series page is scraped with goquery and chapter and volume numbers
// are recognised from the chapter names, so merged chapters can be interleaved with
// the primary ones.
package merged
