// Package astio reads and writes programs in the line-oriented AST dump
// format and in a compact msgpack encoding.
//
// A dump node is a "#<line>" header followed by its tag on the next line;
// children and attributes follow one per line, indented by two spaces.
// Expression nodes end with a ": <type>" line at their own indentation:
//
//	#3
//	_plus
//	  #3
//	  _int
//	    1
//	  : Int
//	  ...
//	: Int
//
// Indentation is not significant to the reader.
package astio
