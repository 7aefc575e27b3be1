// Package legends loads legend CSV files and watches legend directories.
//
// A legend file has a header "colour, width, component <attribute>" and one
// row per attribute value, e.g.
//
//	colour;width;component lithology
//	#ffff00;3;sand
//	#aaaaaa;2;clay
package legends
