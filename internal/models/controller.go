package models

// ControllerMetadata represents an //axon::controller struct and its annotated routes
type ControllerMetadata struct {
	Name     string          // struct name
	FileName string          // file declaring the struct
	Routes   []RouteMetadata // routes declared on the controller's methods
}

// RouteMetadata represents an //axon::route annotation bound to a controller method
type RouteMetadata struct {
	Method      string // HTTP method (GET, POST, etc.)
	Path        string // route template
	HandlerName string // name of the handler method
	Line        int    // line of the annotation comment
}
