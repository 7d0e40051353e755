// Package html extracts readable text from HTML documents.
package html
