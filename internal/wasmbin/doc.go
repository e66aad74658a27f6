// Package wasmbin encodes the small core WebAssembly modules chronos needs
// without a toolchain: a LEB128 section writer and the timer guest that
// imports the nanotime host function.
package wasmbin
