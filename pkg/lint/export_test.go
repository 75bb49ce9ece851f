package lint

// AssembleContext exposes context assembly to the lint_test package.
var AssembleContext = assemble
