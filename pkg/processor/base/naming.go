package base

import "strings"

const (
	// Namespace is the parent package every processor module lives under.
	Namespace = "pyffle.processor"

	// DefaultName is the processor name that maps to the bare DefaultClass.
	DefaultName = "Default"

	// DefaultClass is the class implementing the Default processor.
	DefaultClass = "Processor"

	// ClassSuffix is appended to every other processor name to form its class.
	ClassSuffix = "Processor"
)

// ModuleName returns the lower-cased attribute name of the module under Namespace.
func ModuleName(name string) string {
	return strings.ToLower(name)
}

// ModulePath returns the fully qualified module path for a processor name.
func ModulePath(name string) string {
	return Namespace + "." + ModuleName(name)
}

// ClassName returns the class implementing a processor name. Casing of the
// original name is preserved.
func ClassName(name string) string {
	if name == DefaultName {
		return DefaultClass
	}
	return name + ClassSuffix
}

// ModuleNameFromPath strips the Namespace prefix from a module path.
func ModuleNameFromPath(modulePath string) (string, bool) {
	prefix := Namespace + "."
	if !strings.HasPrefix(modulePath, prefix) || len(modulePath) == len(prefix) {
		return "", false
	}
	return modulePath[len(prefix):], true
}
