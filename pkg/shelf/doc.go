// Package shelf filters the catalog into named views, by using CEL
// (Common Expression Language) expressions.
//
// The expressions have access to the fields of each book, allowing for
// flexible matching logic.
package shelf
