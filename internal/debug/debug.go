// Package debug provides a tracing logger that is a no-op unless enabled
// through the environment, in the style of restic's internal/debug: always
// linked in, effectively free when the operator hasn't asked for traces.
package debug

import (
	"fmt"
	"log"
	"os"
	"path"
	"strings"
)

var opts struct {
	enabled bool
	logger  *log.Logger
	tags    map[string]bool
}

var _ = initialize()

func initialize() bool {
	if f := os.Getenv("BLOCKKV_DEBUG_LOG"); f != "" {
		fh, err := os.OpenFile(f, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "blockkv: unable to open debug log %q: %v\n", f, err)
		} else {
			opts.logger = log.New(fh, "", log.LstdFlags|log.Lmicroseconds)
		}
	}

	opts.tags = parseTags(os.Getenv("BLOCKKV_DEBUG_TAGS"))

	opts.enabled = opts.logger != nil || len(opts.tags) > 0
	return opts.enabled
}

func parseTags(env string) map[string]bool {
	tags := make(map[string]bool)
	if env == "" {
		return tags
	}
	for _, t := range strings.Split(env, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags[t] = true
		}
	}
	return tags
}

func enabledFor(tag string) bool {
	if !opts.enabled {
		return false
	}
	if opts.logger != nil {
		return true
	}
	if opts.tags["all"] {
		return true
	}
	for t := range opts.tags {
		if ok, _ := path.Match(t, tag); ok {
			return true
		}
	}
	return false
}

// Log writes a trace message tagged with tag, if tracing for that tag (or
// "all") is enabled via BLOCKKV_DEBUG_TAGS, or unconditionally if
// BLOCKKV_DEBUG_LOG points at a writable file.
func Log(tag, format string, args ...interface{}) {
	if !enabledFor(tag) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] %s", tag, msg)
	if opts.logger != nil {
		opts.logger.Print(line)
	}
	if opts.tags["all"] || opts.tags[tag] {
		fmt.Fprintln(os.Stderr, line)
	}
}

// Enabled reports whether any tracing is configured, so callers can skip
// building an expensive trace message when it would be discarded anyway.
func Enabled() bool {
	return opts.enabled
}
