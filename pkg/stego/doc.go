// Package stego orchestrates embed, extract, and inspect runs over
// container files. It owns payload preparation, atomic output staging,
// and concurrent inspection; the chunk surgery itself lives in pkg/png.
package stego
