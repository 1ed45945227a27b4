// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package logger ships charm log messages to the Juju controller.
package logger

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

// LogTool is the juju-log hook tool.
type LogTool interface {
	JujuLog(level loggo.Level, message string) error
}

// JujuLogWriter is a loggo.Writer that forwards entries to juju-log, so they
// show up in `juju debug-log` for the unit.
type JujuLogWriter struct {
	tool LogTool
}

// NewJujuLogWriter returns a writer forwarding to tool.
func NewJujuLogWriter(tool LogTool) *JujuLogWriter {
	return &JujuLogWriter{tool: tool}
}

// Write is part of the loggo.Writer interface.
func (w *JujuLogWriter) Write(entry loggo.Entry) {
	message := fmt.Sprintf("%s %s:%d %s", entry.Module, entry.Filename, entry.Line, entry.Message)
	// A failing juju-log has nowhere left to report to.
	_ = w.tool.JujuLog(entry.Level, message)
}

// Install replaces the default loggo writer with one forwarding to tool and
// sets the root log level.
func Install(tool LogTool, level loggo.Level) error {
	if _, err := loggo.ReplaceDefaultWriter(NewJujuLogWriter(tool)); err != nil {
		return errors.Annotate(err, "replacing default log writer")
	}
	return SetLevel(level)
}

// SetLevel sets the level of the root logger.
func SetLevel(level loggo.Level) error {
	err := loggo.ConfigureLoggers(fmt.Sprintf("<root>=%s", level))
	return errors.Annotatef(err, "configuring log level %s", level)
}
