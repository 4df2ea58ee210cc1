package detector

// DefaultMethods are the registration method names recognized out of the box
var DefaultMethods = []string{
	// minimal-API style
	"MapGet", "MapPost", "MapPut", "MapDelete", "MapPatch", "Map",
	// gin / echo
	"GET", "POST", "PUT", "DELETE", "PATCH",
	// fiber / chi
	"Get", "Post", "Put", "Delete", "Patch",
	// net/http
	"Handle", "HandleFunc",
}

// Config controls which source shapes are treated as route registrations
type Config struct {
	// Methods is the set of method names whose calls register a route
	Methods []string
	// Annotations enables //axon::route annotations on //axon::controller methods
	Annotations bool
}

// DefaultConfig returns the default detector configuration
func DefaultConfig() Config {
	methods := make([]string, len(DefaultMethods))
	copy(methods, DefaultMethods)
	return Config{
		Methods:     methods,
		Annotations: true,
	}
}
