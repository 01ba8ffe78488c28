// Package logger builds the structured loggers used by the shell.
package logger
