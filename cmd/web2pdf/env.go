package main

import (
	"context"
	"io"
	"os"
	"time"

	web2pdf "github.com/alnah/go-web2pdf"
)

// Converter is the part of *web2pdf.Converter the CLI drives.
type Converter interface {
	Convert(ctx context.Context, job web2pdf.Job) (*web2pdf.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*web2pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the process environment and the converter factory.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(key string) string
	Environ func() []string

	// NewConverter builds the converter for one run.
	NewConverter func(opts ...web2pdf.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		NewConverter: func(opts ...web2pdf.Option) (Converter, error) {
			return web2pdf.NewConverter(opts...)
		},
	}
}
