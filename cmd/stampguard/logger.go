package main

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// stdLogger adapts the standard library logger to es.Logger.
type stdLogger struct {
	debug bool
}

func (l stdLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.debug {
		l.print("DEBUG", msg, args)
	}
}

func (l stdLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.print("INFO", msg, args)
}

func (l stdLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.print("ERROR", msg, args)
}

func (l stdLogger) print(level, msg string, args []interface{}) {
	var b strings.Builder
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	log.Printf("%s %s%s", level, msg, b.String())
}
