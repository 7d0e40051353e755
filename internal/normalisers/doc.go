// Package normalisers strips markup from input files before they are split
// into sentences. Each format lives in its own subpackage and is selected
// by file extension through a Registry.
package normalisers
