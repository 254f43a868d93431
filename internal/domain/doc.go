// Package domain contains the core value types of the trend finder: the
// filter Request, the validated Result view model with its products, sources
// and strategic insights, and the filter Catalog the service accepts.
//
// Everything here is a plain value. Nothing in this package performs I/O.
package domain
