// Package resolver provides argument resolvers for handler.Chain.
//
// Defaults returns the standard chain. Resolvers that key off annotations
// (Command, Payload, Attribute) are attached to parameters with
// handler.WithAnnotations when the handler method is built.
package resolver
