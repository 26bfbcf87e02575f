// Package synthfs writes generated files through a synthfs pipeline.
package synthfs
