//go:build darwin || linux

package faissc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/cpu"
)

const (
	envLibrary = "FAISS_C_LIBRARY"
	envPreload = "FAISS_PRELOAD"
)

// Options contains configuration options for loading the library.
type Options struct {
	// LibraryPath is the library to load. If empty, the platform library
	// names are tried in CPU-dispatch order.
	LibraryPath string

	// Preload lists libraries opened with RTLD_GLOBAL before libfaiss_c,
	// typically the BLAS implementation faiss was linked against.
	Preload []string

	// DisableCPUDispatch skips the AVX-512 and AVX2 library variants.
	DisableCPUDispatch bool
}

// DefaultOptions contains the default configuration options for the loader.
var DefaultOptions = Options{
	LibraryPath:        "",
	Preload:            nil,
	DisableCPUDispatch: false,
}

// Open loads libfaiss_c and returns an engine bound to it.
func Open(optFns ...func(o *Options)) (*Engine, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.LibraryPath == "" {
		opts.LibraryPath = os.Getenv(envLibrary)
	}
	if len(opts.Preload) == 0 {
		if v := os.Getenv(envPreload); v != "" {
			opts.Preload = filepath.SplitList(v)
		}
	}

	for _, path := range opts.Preload {
		if _, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL); err != nil {
			return nil, fmt.Errorf("faissc: preload %s: %w", path, err)
		}
	}

	var errs []error
	for _, path := range candidates(opts, runtime.GOOS, cpuFeatures()) {
		lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		e := &Engine{lib: lib, path: path}
		if err := e.sym.register(lib); err != nil {
			_ = purego.Dlclose(lib)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		return e, nil
	}

	return nil, fmt.Errorf("faissc: cannot load library: %w", errors.Join(errs...))
}

type features struct {
	avx512 bool
	avx2   bool
}

func cpuFeatures() features {
	return features{
		avx512: cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512DQ && cpu.X86.HasAVX512VL,
		avx2:   cpu.X86.HasAVX2,
	}
}

// candidates returns the library paths to try, most specific first.
func candidates(opts Options, goos string, f features) []string {
	if opts.LibraryPath != "" {
		return []string{opts.LibraryPath}
	}

	ext := ".so"
	if goos == "darwin" {
		ext = ".dylib"
	}

	var paths []string
	if !opts.DisableCPUDispatch {
		if f.avx512 {
			paths = append(paths, "libfaiss_c_avx512"+ext)
		}
		if f.avx2 {
			paths = append(paths, "libfaiss_c_avx2"+ext)
		}
	}
	return append(paths, "libfaiss_c"+ext)
}
