// Package internal holds helpers shared by the memberauth root package that
// must not become public API.
package internal
