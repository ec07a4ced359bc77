// Package util holds small generic helpers shared by the SDK packages.
package util
