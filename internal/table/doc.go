// Package table computes the visible page and summary statistics for the
// results view.
//
// Everything here is a pure function of its inputs: the dataset, the filter
// selection and the pagination request. Callers own the session state and
// store the clamped page returned by Paginate for the next render.
package table
