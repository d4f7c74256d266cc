// Package path parses property-path expressions and expands them against a
// schema index into concrete, fully-qualified paths.
//
// Grammar:
//
//	path     = segment { "." segment }
//	segment  = name [ selector ]
//	selector = "[" int "]"                      index
//	         | "[" int ".." ( int | "*" ) "]"   bounded or open range
//	         | "[" "*" "]"                      wildcard, until the first missing element
//	         | "[" key { "," key } "]"          map keys, key = double-quoted string
//
// A quoted key may itself hold a comma separated list: ["k1,k2"] addresses k1 then k2.
// Only the last segment may carry a range, wildcard or key list.
package path
