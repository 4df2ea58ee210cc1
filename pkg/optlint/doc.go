// Package optlint defines an analyzer that reports route handlers whose parameters
// are bound to optional route segments but cannot represent an absent value.
//
// # Analyzer optlint
//
// optlint: check optional route segments against handler parameter types
//
// A route such as "/hello/{name?}" may be requested without a name. When the
// handler declares "name string" there is no way to tell an absent segment from an
// empty one. The analyzer reports the registration and suggests a fix that makes
// every mismatched parameter a pointer:
//
//	app.MapGet("/hello/{name?}", func(name *string) { ... })
//
// Registrations are calls to a configured method set whose first argument is a
// constant template and whose last argument is the handler, and methods of
// //axon::controller structs annotated with //axon::route.
package optlint
