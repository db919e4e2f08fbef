// Package kmeans implements k-means clustering for coarse quantizer training.
//
// Used by the reference engine to learn the inverted-list centroids of
// IVF indexes.
package kmeans
