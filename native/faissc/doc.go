// Package faissc binds the faiss C API (libfaiss_c) to the native.Engine
// boundary without cgo.
//
// The shared library is loaded at run time with purego. On x86-64 the
// loader prefers the AVX-512 and AVX2 builds of the library when the CPU
// supports them and falls back to the generic build.
//
// # Usage
//
//	eng, err := faissc.Open()
//	if err != nil {
//	    // libfaiss_c is not installed
//	}
//	idx, err := faiss.IndexFactory(128, "IVF256,Flat", faiss.MetricL2, faiss.WithEngine(eng))
//
// # Configuration
//
//	eng, err := faissc.Open(func(o *faissc.Options) {
//	    o.LibraryPath = "/opt/faiss/lib/libfaiss_c.so"
//	    o.Preload = []string{"libmkl_rt.so"}
//	})
//
// The FAISS_C_LIBRARY environment variable sets LibraryPath and
// FAISS_PRELOAD (a path list) sets Preload when the options leave them
// empty.
package faissc
