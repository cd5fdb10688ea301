package errors

import "errors"

// Sentinel errors, one per failure kind the engine reports.
var (
	// ErrConfiguration indicates the project configuration is invalid.
	// Configuration errors abort the run before any filesystem writes.
	ErrConfiguration = errors.New("configuration error")

	// ErrHandlerNotFound indicates no registered handler applies to a template.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrHandlerExecution indicates a handler failed while generating a component.
	ErrHandlerExecution = errors.New("handler execution failed")

	// ErrTemplateRender indicates a template tree could not be read or rendered.
	ErrTemplateRender = errors.New("template render error")

	// ErrManifestEdit indicates the workspace manifest could not be parsed or edited.
	ErrManifestEdit = errors.New("manifest edit error")

	// ErrImportRewrite indicates a source file could not be rewritten.
	ErrImportRewrite = errors.New("import rewrite failed")

	// ErrNotFound indicates a template, file or directory was not found.
	ErrNotFound = errors.New("not found")
)
