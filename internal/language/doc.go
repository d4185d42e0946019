// Package language maps caption language tags between the forms used by the
// download engine, the translation backend, and container metadata.
//
// Matching follows BCP 47 semantics via golang.org/x/text/language so that a
// target family such as zh-Hans also accepts regional tracks like zh-CN.
package language
