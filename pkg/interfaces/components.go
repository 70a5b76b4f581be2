package interfaces

// ComponentRegistry describes the lifecycle contract for registering and
// resolving MDX components. Implementations must be safe for concurrent use.
type ComponentRegistry interface {
	// Register stores a definition and returns an error when a component with
	// the same name already exists or the definition fails validation.
	Register(definition ComponentDefinition) error

	// Get returns the definition for the supplied tag name.
	Get(name string) (ComponentDefinition, bool)

	// List exposes the current catalogue in name order.
	List() []ComponentDefinition

	// Remove deletes the component. Removing an unknown component is a no-op.
	Remove(name string)

	// Components returns the tag name to implementation map handed to compile
	// requests.
	Components() map[string]Component
}

// ComponentDefinition binds a JSX tag name to its implementation. Either
// Component or Template must be set; Template is an html/template source
// executed with the props and a Children field.
type ComponentDefinition struct {
	Name        string
	Component   Component
	Template    string
	PropsSchema map[string]any
	Description string
	Category    string
}
