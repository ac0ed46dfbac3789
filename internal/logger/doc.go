// Package logger wraps a zap sugared logger used by every ue-release command.
//
// The global logger writes human-readable console lines to stderr so that the
// staging output never mixes with command results printed to stdout. Services
// receive a context and pull a scoped logger out of it with FromContext.
package logger
