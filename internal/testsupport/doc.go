// Package testsupport holds helpers shared by package tests: temp-rooted
// configurations, stub binaries on PATH, and small file helpers.
package testsupport
