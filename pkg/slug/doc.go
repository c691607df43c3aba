// Package slug turns arbitrary text into URL-safe identifiers.
//
//	slug.Make("Café & Restaurant")                 // "cafe-restaurant"
//	slug.Make("Product Name", slug.Separator("_")) // "product_name"
//
// Make folds Latin diacritics and ligatures to ASCII, replaces everything
// non-alphanumeric with the separator, and collapses runs. Characters
// with no ASCII form (Cyrillic, CJK) become separators and disappear.
//
// Options shape the result: MaxLength and MinLength bound the rune
// count, Lowercase(false) keeps the original case, StripChars and
// CustomReplace preprocess the input, WithSuffix appends random
// characters for uniqueness, and ReservedSlugs forces a suffix onto
// slugs that would collide with protected names like "admin".
package slug
