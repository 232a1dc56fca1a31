package errors

// Registered error codes.
const (
	CodeTargetNotFound  = "R001"
	CodeUnsupportedNode = "R002"
	CodeRenderPanic     = "R003"
	CodeMalformedNode   = "R004"
	CodeHostOperation   = "R005"
	CodeUnmounted       = "R006"
	CodeUpdateLoop      = "R007"

	CodeConfigParse    = "C001"
	CodeConfigInvalid  = "C002"
	CodeConfigNotFound = "C003"

	CodeFrameDecode = "P001"
	CodeFrameEncode = "P002"
	CodeUnknownNode = "P003"

	CodeSnapshotStore = "S001"
)

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Runtime and structural errors (R001-R099)

	CodeTargetNotFound: {
		Category:   CategoryConfig,
		Message:    "Mount target not found",
		Suggestion: "Pass a host handle or a selector the host adapter can resolve.",
	},
	CodeUnsupportedNode: {
		Category:   CategoryConfig,
		Message:    "Unsupported virtual node",
		Suggestion: "Build nodes with vdom.Text, vdom.H or vdom.C so the kind is set.",
	},
	CodeRenderPanic: {
		Category: CategoryRuntime,
		Message:  "Component render failed",
	},
	CodeMalformedNode: {
		Category:   CategoryStructure,
		Message:    "Malformed virtual node",
		Suggestion: "Keys must be strings or numbers; component nodes need a definition.",
	},
	CodeHostOperation: {
		Category: CategoryHost,
		Message:  "Host operation failed",
	},
	CodeUnmounted: {
		Category: CategoryRuntime,
		Message:  "Component is not mounted",
	},
	CodeUpdateLoop: {
		Category:   CategoryRuntime,
		Message:    "Component keeps updating itself",
		Suggestion: "A lifecycle hook or emit handler mutates data on every pass; guard the mutation.",
	},

	// Configuration errors (C001-C099)

	CodeConfigParse: {
		Category:   CategoryConfig,
		Message:    "Configuration file could not be parsed",
		Suggestion: "Check race.json / race.toml for syntax errors.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Configuration is invalid",
	},
	CodeConfigNotFound: {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create race.toml or race.json in the project root, or run with defaults.",
	},

	// Protocol errors (P001-P099)

	CodeFrameDecode: {
		Category: CategoryProtocol,
		Message:  "Frame could not be decoded",
	},
	CodeFrameEncode: {
		Category: CategoryProtocol,
		Message:  "Frame could not be encoded",
	},
	CodeUnknownNode: {
		Category: CategoryProtocol,
		Message:  "Event targets an unknown node",
	},

	// Storage errors (S001-S099)

	CodeSnapshotStore: {
		Category: CategoryStorage,
		Message:  "Snapshot could not be stored",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
