package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	DocURL     string
}

// MismatchCauses is the explanation attached to every mismatch diagnostic.
const MismatchCauses = "The server-rendered markup did not match what the client rendered. " +
	"Common causes: branching on whether code runs on the server or the client; " +
	"non-deterministic values such as the current time or random numbers; " +
	"locale-dependent date or number formatting; " +
	"external data that changed between the server render and hydration; " +
	"invalid HTML nesting that the parser repaired; " +
	"third-party scripts or browser extensions modifying the markup before hydration."

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Hydration Errors (E040-E059)
	// ============================================

	"E040": {
		Category:   CategoryHydration,
		Message:    "Hydration mismatch: element type differs",
		Detail:     MismatchCauses,
		Suggestion: "Render the same element on server and client; move client-only branches into an effect.",
		DocURL:     "https://vango.dev/docs/errors/E040",
	},
	"E041": {
		Category:   CategoryHydration,
		Message:    "Hydration mismatch: text content differs",
		Detail:     MismatchCauses,
		Suggestion: "Avoid time, random or locale-dependent values during render, or mark the element with SuppressHydrationWarning.",
		DocURL:     "https://vango.dev/docs/errors/E041",
	},
	"E042": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: attribute differs",
		Detail:   MismatchCauses + " Attributes are reconciled to the client values.",
		DocURL:   "https://vango.dev/docs/errors/E042",
	},
	"E043": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: extra element on client",
		Detail:   MismatchCauses,
		DocURL:   "https://vango.dev/docs/errors/E043",
	},
	"E044": {
		Category: CategoryHydration,
		Message:  "Hydration mismatch: extra element on server",
		Detail:   MismatchCauses,
		DocURL:   "https://vango.dev/docs/errors/E044",
	},
	"E045": {
		Category:   CategoryHydration,
		Message:    "Boundary content incomplete on server",
		Detail:     "The server could not finish rendering this boundary's content and sent its fallback. The boundary is rendered on the client.",
		Suggestion: "Check server logs for the error raised while rendering the boundary content.",
		DocURL:     "https://vango.dev/docs/errors/E045",
	},
	"E048": {
		Category: CategoryProvider,
		Message:  "Hydration tree unavailable",
		Detail:   "The server markup or the client render tree could not be produced. The hydration attempt was abandoned.",
		DocURL:   "https://vango.dev/docs/errors/E048",
	},
	"E049": {
		Category: CategoryHydration,
		Message:  "Hydration failed: content replaced by client render",
		Detail:   "A mismatch outside any boundary forced the whole tree to be rendered again on the client. Details of the first mismatch follow.",
		DocURL:   "https://vango.dev/docs/errors/E049",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid hydrate configuration",
		Detail:   "The hydrate configuration file is malformed.",
		DocURL:   "https://vango.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid hydration mode",
		Detail:   "The mode must be \"safety\" or \"lenient\".",
		DocURL:   "https://vango.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid numeric setting",
		Detail:   "A numeric configuration value is out of range.",
		DocURL:   "https://vango.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Unknown text policy",
		Detail:   "The text policy must be \"default\", \"exact\" or \"collapse\".",
		DocURL:   "https://vango.dev/docs/errors/E123",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Cannot read input",
		Detail:   "An input file could not be read or parsed.",
		DocURL:   "https://vango.dev/docs/errors/E140",
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
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
