// Package job defines the immutable job specification consumed by the
// pipeline: enabled output categories with their encode parameters, the
// originals disposition, the metadata policy, and the delivery folder layout.
//
// A Spec is constructed once by the caller (CLI, GUI, or API host), validated,
// and then passed by value through the whole pipeline. The pipeline never
// reads configuration files or environment variables itself.
package job
